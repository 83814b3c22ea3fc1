package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/cache"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/http/middleware"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

type routeCodesResponse struct {
	RouteCodes []string `json:"route_codes"`
}

// GET /api/v1/routes/codes
func GetRouteCodes(c *gin.Context) {
	repo := repositories.RoutesRepository{}
	payload, _, err := cache.GetOrCompute(c.Request.Context(), store(), cache.RouteCodesKey(), cache.TTLRoutes,
		middleware.GetRequestID(c), func(context.Context) (routeCodesResponse, error) {
			codes, err := repo.Codes()
			if err != nil {
				return routeCodesResponse{}, err
			}
			return routeCodesResponse{RouteCodes: codes}, nil
		})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

type routeDetailsResponse struct {
	RouteCode string                      `json:"route_code"`
	RouteName string                      `json:"route_name"`
	RouteType string                      `json:"route_type"`
	Stations  []repositories.RouteStation `json:"stations"`
}

// GET /api/v1/routes/:route_code/details
func GetRouteDetails(c *gin.Context) {
	routeCode := strings.TrimSpace(c.Param("route_code"))
	if routeCode == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "Invalid route_code", nil)
		return
	}

	repo := repositories.RoutesRepository{}
	payload, _, err := cache.GetOrCompute(c.Request.Context(), store(), cache.RouteDetailsKey(routeCode),
		cache.TTLRoutes, middleware.GetRequestID(c), func(context.Context) (routeDetailsResponse, error) {
			route, stations, err := repo.Details(routeCode)
			if err != nil {
				return routeDetailsResponse{}, err
			}
			return routeDetailsResponse{
				RouteCode: route.RouteCode,
				RouteName: route.RouteName,
				RouteType: route.RouteType,
				Stations:  stations,
			}, nil
		})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

type routeStationsResponse struct {
	RouteCode     string                      `json:"route_code"`
	TotalStations int                         `json:"total_stations"`
	Stations      []repositories.RouteStation `json:"stations"`
}

// GET /api/v1/routes/:route_code/stations
//
// The station sequence of a route changes far less often than the route
// metadata, so it rides the longer TTL class.
func GetRouteStations(c *gin.Context) {
	routeCode := strings.TrimSpace(c.Param("route_code"))
	if routeCode == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "Invalid route_code", nil)
		return
	}

	repo := repositories.RoutesRepository{}
	payload, _, err := cache.GetOrCompute(c.Request.Context(), store(), cache.RouteStationsKey(routeCode),
		cache.TTLRouteStations, middleware.GetRequestID(c), func(context.Context) (routeStationsResponse, error) {
			route, stations, err := repo.Details(routeCode)
			if err != nil {
				return routeStationsResponse{}, err
			}
			return routeStationsResponse{
				RouteCode:     route.RouteCode,
				TotalStations: len(stations),
				Stations:      stations,
			}, nil
		})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}
