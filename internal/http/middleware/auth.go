package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	operatorIDKey   = "operator_id"
	operatorRoleKey = "operator_role"
)

// RequireAuth validates the Bearer token on protected routes and stores the
// operator claims on the context for handlers downstream.
func RequireAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if id, ok := claims["operator_id"].(float64); ok {
				c.Set(operatorIDKey, int64(id))
			}
			if role, ok := claims["role"].(string); ok {
				c.Set(operatorRoleKey, role)
			}
		}
		c.Next()
	}
}

// OperatorID returns the authenticated operator id, zero when the request
// carried no valid token.
func OperatorID(c *gin.Context) int64 {
	if v, ok := c.Get(operatorIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// OperatorRole returns the authenticated operator role, empty when absent.
func OperatorRole(c *gin.Context) string {
	if v, ok := c.Get(operatorRoleKey); ok {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}
