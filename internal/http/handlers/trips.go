package handlers

import (
	"context"
	"net/http"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/cache"
	intconfig "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/config"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/domain"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/http/middleware"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/repositories"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type startTripRequest struct {
	CardID    int64  `json:"card_id"`
	RouteCode string `json:"route_code"`
	StationID int64  `json:"station_id"`
	VehicleID int64  `json:"vehicle_id"`
	DriverID  int64  `json:"driver_id"`
}

// POST /api/v1/trips/start
func StartTrip(c *gin.Context) {
	var req startTripRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := services.TripService{Cache: store()}
	res, err := svc.Start(c.Request.Context(), services.StartTripInput{
		CardID:    req.CardID,
		RouteCode: req.RouteCode,
		StationID: req.StationID,
		VehicleID: req.VehicleID,
		DriverID:  req.DriverID,
		RequestID: middleware.GetRequestID(c),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

type endTripRequest struct {
	TripID    int64 `json:"trip_id"`
	StationID int64 `json:"station_id"`
}

// POST /api/v1/trips/end
func EndTrip(c *gin.Context) {
	var req endTripRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := services.TripService{Cache: store()}
	res, err := svc.End(c.Request.Context(), services.EndTripInput{
		TripID:    req.TripID,
		StationID: req.StationID,
		RequestID: middleware.GetRequestID(c),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/v1/trips/total
func GetTripTotals(c *gin.Context) {
	repo := repositories.TripsRepository{}
	payload, _, err := cache.GetOrCompute(c.Request.Context(), store(), cache.TripsTotalKey(), cache.TTLTrips,
		middleware.GetRequestID(c), func(context.Context) (repositories.TripTotals, error) {
			return repo.Totals()
		})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

type localityTotalsResponse struct {
	Localities []repositories.LocalityTripStats `json:"localities"`
}

// GET /api/v1/trips/total/localities
func GetTripTotalsByLocality(c *gin.Context) {
	repo := repositories.TripsRepository{}
	payload, _, err := cache.GetOrCompute(c.Request.Context(), store(), cache.TripsTotalLocalitiesKey(), cache.TTLTrips,
		middleware.GetRequestID(c), func(context.Context) (localityTotalsResponse, error) {
			localities, err := repo.TotalsByLocality()
			if err != nil {
				return localityTotalsResponse{}, err
			}
			return localityTotalsResponse{Localities: localities}, nil
		})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

type cardTripsResponse struct {
	Trips []repositories.CardTrip `json:"trips"`
}

// GET /api/v1/trips/card/:card_id
func GetTripsByCard(c *gin.Context) {
	cardID, ok := PathID(c, "card_id")
	if !ok {
		return
	}

	cards := repositories.CardsRepository{}
	trips := repositories.TripsRepository{}
	payload, _, err := cache.GetOrCompute(c.Request.Context(), store(), cache.CardTripsKey(cardID), cache.TTLTrips,
		middleware.GetRequestID(c), func(context.Context) (cardTripsResponse, error) {
			exists, err := cards.Exists(intconfig.DB, cardID)
			if err != nil {
				return cardTripsResponse{}, err
			}
			if !exists {
				return cardTripsResponse{}, domain.NotFoundError{Resource: "Card"}
			}
			list, err := trips.TripsByCard(cardID)
			if err != nil {
				return cardTripsResponse{}, err
			}
			return cardTripsResponse{Trips: list}, nil
		})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}
