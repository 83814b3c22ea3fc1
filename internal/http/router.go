package api

import (
	"log"
	stdhttp "net/http"
	"time"

	intconfig "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/config"
	h "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/http/handlers"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(env.CORSAllowedOrigins) == 1 && env.CORSAllowedOrigins[0] == "*" {
		// Credentials cannot be combined with a wildcard origin.
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = env.CORSAllowedOrigins
	}

	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	h.SetJWTSecret(env.JWTSecret)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/", h.Root)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)
	}

	v1 := r.Group("/api/v1")
	{
		// Cards
		cards := v1.Group("/cards")
		cards.POST("/recharge", h.RechargeCard)
		cards.GET("/:card_id/balance", h.GetCardBalance)
		cards.GET("/:card_id/history", h.GetCardHistory)
		cards.GET("/:card_id/statement", h.GetCardStatementPDF)

		// Trips
		trips := v1.Group("/trips")
		trips.POST("/start", h.StartTrip)
		trips.POST("/end", h.EndTrip)
		trips.GET("/total", h.GetTripTotals)
		trips.GET("/total/localities", h.GetTripTotalsByLocality)
		trips.GET("/card/:card_id", h.GetTripsByCard)

		// Finance
		finance := v1.Group("/finance")
		finance.GET("/revenue", h.GetTotalRevenue)
		finance.GET("/revenue/localities", h.GetRevenueByLocalities)

		// Routes
		routes := v1.Group("/routes")
		routes.GET("/codes", h.GetRouteCodes)
		routes.GET("/:route_code/details", h.GetRouteDetails)
		routes.GET("/:route_code/stations", h.GetRouteStations)

		// Stations
		stations := v1.Group("/stations")
		stations.GET("", h.GetStations)
		stations.GET("/:station_id/arrivals", h.GetStationArrivals)
		stations.GET("/:station_id/alerts", h.GetStationAlerts)

		// Users
		users := v1.Group("/users")
		users.GET("/count", h.GetUserCount)
		users.GET("/active/count", h.GetActiveUserCount)
		users.GET("/latest", h.GetLatestUser)

		// Auth
		auth := v1.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// Cache administration. Health stays open so probes work
		// without a token; the rest is operator-only.
		cacheGroup := v1.Group("/cache")
		cacheGroup.GET("/health", h.CacheHealth)
		protected := cacheGroup.Group("")
		protected.Use(middleware.RequireAuth(env.JWTSecret))
		protected.GET("/stats", h.GetCacheStats)
		protected.GET("/keys", h.GetCacheKeys)
		protected.POST("/clear", h.ClearCache)
		protected.DELETE("/key/:key_name", h.DeleteCacheKey)
	}

	h.SetRouter(r)

	return r
}
