package handlers

import (
	"net/http"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/domain"
	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

// The user counters back the dashboard and are cheap single-row aggregates,
// so they are served straight from the database.

// GET /api/v1/users/count
func GetUserCount(c *gin.Context) {
	repo := repositories.UsersRepository{}
	count, err := repo.Count()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_users": count})
}

// GET /api/v1/users/active/count
func GetActiveUserCount(c *gin.Context) {
	repo := repositories.UsersRepository{}
	count, err := repo.ActiveCount()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active_users_count": count})
}

// GET /api/v1/users/latest
func GetLatestUser(c *gin.Context) {
	repo := repositories.UsersRepository{}
	user, err := repo.Latest()
	if err != nil {
		if domain.IsNotFound(err) {
			c.Status(http.StatusNoContent)
			return
		}
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"latest_user": user})
}
