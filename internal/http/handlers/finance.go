package handlers

import (
	"context"
	"net/http"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/cache"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/domain"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/http/middleware"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

// The finance endpoints cache the bare aggregate and attach the currency at
// respond time, so the cached value stays a plain number or list.

// GET /api/v1/finance/revenue
func GetTotalRevenue(c *gin.Context) {
	repo := repositories.FinanceRepository{}
	total, _, err := cache.GetOrCompute(c.Request.Context(), store(), cache.TotalRevenueKey(), cache.TTLFinance,
		middleware.GetRequestID(c), func(context.Context) (domain.Money, error) {
			return repo.TotalRevenue()
		})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_revenue": total, "currency": "COP"})
}

// GET /api/v1/finance/revenue/localities
func GetRevenueByLocalities(c *gin.Context) {
	repo := repositories.FinanceRepository{}
	data, _, err := cache.GetOrCompute(c.Request.Context(), store(), cache.RevenueByLocalitiesKey(), cache.TTLFinance,
		middleware.GetRequestID(c), func(context.Context) ([]repositories.LocalityRevenue, error) {
			return repo.RevenueByLocality()
		})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "currency": "COP"})
}
