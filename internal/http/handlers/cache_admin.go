package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/cache"
	intconfig "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/config"

	"github.com/gin-gonic/gin"
)

// The admin surface needs the concrete Redis client rather than the Store
// interface: INFO counters, TTL inspection and FLUSHDB have no place on the
// read path.
func adminClient() *cache.Client {
	if intconfig.Cache != nil {
		return intconfig.Cache
	}
	return cache.Unavailable("not configured")
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

// GET /api/v1/cache/stats
func GetCacheStats(c *gin.Context) {
	client := adminClient()
	if !client.Available() {
		respondCacheUnavailable(c, client.Reason())
		return
	}

	stats, err := client.Stats(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "Error getting cache stats: "+err.Error(), nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cache_stats": gin.H{
			"connected_clients":    stats.ConnectedClients,
			"used_memory_human":    stats.UsedMemoryHuman,
			"total_keys":           stats.TotalKeys,
			"keyspace_hits":        stats.KeyspaceHits,
			"keyspace_misses":      stats.KeyspaceMisses,
			"hit_rate_percentage":  stats.HitRate(),
			"total_cache_requests": stats.KeyspaceHits + stats.KeyspaceMisses,
		},
	})
}

// GET /api/v1/cache/keys
func GetCacheKeys(c *gin.Context) {
	client := adminClient()
	if !client.Available() {
		respondCacheUnavailable(c, client.Reason())
		return
	}

	ctx := c.Request.Context()
	keys, err := client.Scan(ctx, "*")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "Error getting cache keys: "+err.Error(), nil)
		return
	}
	sort.Strings(keys)

	info := make([]gin.H, 0, len(keys))
	for _, key := range keys {
		ttl, err := client.TTL(ctx, key)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "internal_error", "Error getting cache keys: "+err.Error(), nil)
			return
		}
		// -1 means no expiry, -2 means the key vanished since the scan.
		info = append(info, gin.H{
			"key": key,
			"ttl": int64(ttl / time.Second),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"total_keys": len(info),
		"keys":       info,
	})
}

// POST /api/v1/cache/clear
func ClearCache(c *gin.Context) {
	client := adminClient()
	if !client.Available() {
		respondCacheUnavailable(c, client.Reason())
		return
	}

	ctx := c.Request.Context()
	keys, err := client.Scan(ctx, "*")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "Error clearing cache: "+err.Error(), nil)
		return
	}
	if err := client.FlushDB(ctx); err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "Error clearing cache: "+err.Error(), nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Cache cleared successfully",
		"keys_cleared": len(keys),
	})
}

// DELETE /api/v1/cache/key/:key_name
func DeleteCacheKey(c *gin.Context) {
	client := adminClient()
	if !client.Available() {
		respondCacheUnavailable(c, client.Reason())
		return
	}

	keyName := c.Param("key_name")
	deleted, err := client.DeleteKey(c.Request.Context(), keyName)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "Error deleting cache key: "+err.Error(), nil)
		return
	}

	if deleted {
		c.JSON(http.StatusOK, gin.H{"message": "Key '" + keyName + "' deleted successfully"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Key '" + keyName + "' not found or already deleted"})
}

// GET /api/v1/cache/health
//
// Health always answers 200: a broken cache is an unhealthy report, not a
// failed request.
func CacheHealth(c *gin.Context) {
	client := adminClient()
	if !client.Available() {
		c.JSON(http.StatusOK, gin.H{
			"cache_health": gin.H{
				"status":       "unhealthy",
				"error":        client.Reason(),
				"connectivity": "failed",
			},
		})
		return
	}

	ctx := c.Request.Context()

	start := time.Now()
	if err := client.Ping(ctx); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"cache_health": gin.H{
				"status":       "unhealthy",
				"error":        err.Error(),
				"connectivity": "failed",
			},
		})
		return
	}
	pingTime := time.Since(start)

	const testKey = "health_check_test"
	start = time.Now()
	setErr := client.SetWithTTL(ctx, testKey, []byte("ok"), 10*time.Second)
	raw, getErr := client.Get(ctx, testKey)
	operationTime := time.Since(start)
	_ = client.Delete(ctx, testKey)

	healthy := setErr == nil && getErr == nil && string(raw) == "ok"
	status := "healthy"
	connectivity := "ok"
	if !healthy {
		status = "unhealthy"
		connectivity = "failed"
	}

	c.JSON(http.StatusOK, gin.H{
		"cache_health": gin.H{
			"status":            status,
			"ping_time_ms":      millis(pingTime),
			"operation_time_ms": millis(operationTime),
			"connectivity":      connectivity,
		},
	})
}
