package handlers

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/cache"
	intconfig "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/config"

	"github.com/gin-gonic/gin"
)

var (
	storeMu    sync.RWMutex
	cacheStore cache.Store
)

// SetCacheStore overrides the store used by the cached read handlers. Tests
// install a MemoryStore here; production wiring relies on the config handle.
func SetCacheStore(s cache.Store) {
	storeMu.Lock()
	defer storeMu.Unlock()
	cacheStore = s
}

func store() cache.Store {
	storeMu.RLock()
	s := cacheStore
	storeMu.RUnlock()
	if s != nil {
		return s
	}
	if intconfig.Cache != nil {
		return intconfig.Cache
	}
	return cache.Unavailable("not configured")
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "validation_error", "Request body is required", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "Invalid request body", err.Error())
		return false
	}
	return true
}

// PathID parses a positive integer path parameter, responding 400 itself
// when the value does not qualify.
func PathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "Invalid "+name, nil)
		return 0, false
	}
	return id, true
}
