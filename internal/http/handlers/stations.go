package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/cache"
	intconfig "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/config"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/domain"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/http/middleware"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

type stationListResponse struct {
	Stations []repositories.StationListItem `json:"stations"`
}

// GET /api/v1/stations?locality=&status=
func GetStations(c *gin.Context) {
	locality := c.Query("locality")
	status := c.Query("status")

	repo := repositories.StationsRepository{}
	payload, _, err := cache.GetOrCompute(c.Request.Context(), store(), cache.StationsListKey(locality, status),
		cache.TTLStations, middleware.GetRequestID(c), func(context.Context) (stationListResponse, error) {
			stations, err := repo.List(locality, status)
			if err != nil {
				return stationListResponse{}, err
			}
			return stationListResponse{Stations: stations}, nil
		})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

type arrivalsResponse struct {
	Arrivals []repositories.Arrival `json:"arrivals"`
}

// GET /api/v1/stations/:station_id/arrivals
func GetStationArrivals(c *gin.Context) {
	stationID, ok := PathID(c, "station_id")
	if !ok {
		return
	}

	repo := repositories.StationsRepository{}
	payload, _, err := cache.GetOrCompute(c.Request.Context(), store(), cache.StationArrivalsKey(stationID),
		cache.TTLStations, middleware.GetRequestID(c), func(context.Context) (arrivalsResponse, error) {
			exists, err := repo.Exists(intconfig.DB, stationID)
			if err != nil {
				return arrivalsResponse{}, err
			}
			if !exists {
				return arrivalsResponse{}, domain.NotFoundError{Resource: "Station"}
			}
			arrivals, err := repo.Arrivals(stationID)
			if err != nil {
				return arrivalsResponse{}, err
			}
			return arrivalsResponse{Arrivals: arrivals}, nil
		})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

type alertsResponse struct {
	Alerts []repositories.Alert `json:"alerts"`
}

// GET /api/v1/stations/:station_id/alerts?active_only=
func GetStationAlerts(c *gin.Context) {
	stationID, ok := PathID(c, "station_id")
	if !ok {
		return
	}
	activeOnly, err := strconv.ParseBool(c.DefaultQuery("active_only", "true"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "Invalid active_only", nil)
		return
	}

	repo := repositories.StationsRepository{}
	payload, _, err := cache.GetOrCompute(c.Request.Context(), store(), cache.StationAlertsKey(stationID, activeOnly),
		cache.TTLStations, middleware.GetRequestID(c), func(context.Context) (alertsResponse, error) {
			exists, err := repo.Exists(intconfig.DB, stationID)
			if err != nil {
				return alertsResponse{}, err
			}
			if !exists {
				return alertsResponse{}, domain.NotFoundError{Resource: "Station"}
			}
			alerts, err := repo.Alerts(stationID, activeOnly)
			if err != nil {
				return alertsResponse{}, err
			}
			return alertsResponse{Alerts: alerts}, nil
		})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}
