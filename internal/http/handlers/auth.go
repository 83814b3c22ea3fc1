package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/domain"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var jwtSecret = []byte("super-secret-key-change-me")

// SetJWTSecret installs the signing key from configuration. The default only
// exists so tests do not need wiring.
func SetJWTSecret(secret string) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/v1/auth/login
//
// The email field doubles as username so back-office clients can log in
// with either.
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	repo := repositories.OperatorsRepository{}
	operator, hash, err := repo.GetByLogin(strings.TrimSpace(req.Email))
	if err != nil {
		if domain.IsNotFound(err) {
			respondError(c, http.StatusUnauthorized, "invalid_credentials", "Invalid email/username or password", nil)
			return
		}
		RespondDomainError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "invalid_credentials", "Invalid email/username or password", nil)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"operator_id": operator.OperatorID,
		"role":        operator.Role,
		"exp":         time.Now().Add(24 * time.Hour).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "Could not sign token", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  operator,
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// POST /api/v1/auth/register
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "name, username, email and password are required", nil)
		return
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = "operator"
	}

	repo := repositories.OperatorsRepository{}
	taken, err := repo.LoginTaken(req.Email, req.Username)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if taken {
		respondError(c, http.StatusBadRequest, "validation_error", "Email or username already registered", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "Could not hash password", nil)
		return
	}

	id, err := repo.Insert(req.Name, req.Username, req.Email, string(hash), role)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"user": gin.H{
			"id":       id,
			"name":     req.Name,
			"username": req.Username,
			"email":    req.Email,
			"role":     role,
			"status":   "active",
		},
	})
}
