package handlers

import (
	"errors"
	"net/http"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/domain"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	resp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}
	reqID := middleware.GetRequestID(c)
	if reqID != "" {
		c.JSON(status, gin.H{
			"error":      resp.Error,
			"code":       resp.Code,
			"details":    resp.Details,
			"request_id": reqID,
		})
		return
	}
	c.JSON(status, resp)
}

// RespondDomainError maps domain errors to HTTP responses. The message is
// the domain error's own text so clients see the same strings everywhere.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		var conflict domain.ConflictError
		errors.As(err, &conflict)
		msg := conflict.Msg
		if msg == "" {
			msg = err.Error()
		}
		respondError(c, http.StatusConflict, "conflict", msg, nil)
	case domain.IsInsufficientBalance(err):
		respondError(c, http.StatusPaymentRequired, "insufficient_balance", err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
	}
}

func respondCacheUnavailable(c *gin.Context, reason string) {
	respondError(c, http.StatusServiceUnavailable, "cache_unavailable", "Cache is unavailable", reason)
}
