package handlers

import (
	"context"
	"net/http"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/cache"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/domain"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/http/middleware"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/repositories"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type rechargeRequest struct {
	CardID        int64        `json:"card_id"`
	Amount        domain.Money `json:"amount"`
	PaymentMethod string       `json:"payment_method"`
}

// POST /api/v1/cards/recharge
func RechargeCard(c *gin.Context) {
	var req rechargeRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := services.CardService{Cache: store()}
	res, err := svc.Recharge(c.Request.Context(), services.RechargeInput{
		CardID:        req.CardID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		RequestID:     middleware.GetRequestID(c),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/v1/cards/:card_id/balance
func GetCardBalance(c *gin.Context) {
	cardID, ok := PathID(c, "card_id")
	if !ok {
		return
	}

	repo := repositories.CardsRepository{}
	payload, _, err := cache.GetOrCompute(c.Request.Context(), store(), cache.CardBalanceKey(cardID), cache.TTLCard,
		middleware.GetRequestID(c), func(context.Context) (repositories.CardBalance, error) {
			return repo.BalanceSummary(cardID)
		})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

type cardHistoryResponse struct {
	History []repositories.RechargeEntry `json:"history"`
}

// GET /api/v1/cards/:card_id/history
func GetCardHistory(c *gin.Context) {
	cardID, ok := PathID(c, "card_id")
	if !ok {
		return
	}

	repo := repositories.CardsRepository{}
	payload, _, err := cache.GetOrCompute(c.Request.Context(), store(), cache.CardHistoryKey(cardID), cache.TTLCard,
		middleware.GetRequestID(c), func(context.Context) (cardHistoryResponse, error) {
			history, err := repo.History(cardID)
			if err != nil {
				return cardHistoryResponse{}, err
			}
			return cardHistoryResponse{History: history}, nil
		})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

// GET /api/v1/cards/:card_id/statement
func GetCardStatementPDF(c *gin.Context) {
	cardID, ok := PathID(c, "card_id")
	if !ok {
		return
	}

	svc := services.StatementService{
		Cards: repositories.CardsRepository{},
		Trips: repositories.TripsRepository{},
	}
	pdf, filename, err := svc.CardStatement(cardID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
