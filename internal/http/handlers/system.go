package handlers

import (
	"net/http"
	"sync"

	intconfig "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/config"
	intdb "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/db"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// requiredTables is the schema surface db-check verifies on demand.
var requiredTables = []string{
	"users", "cards", "recharges", "fares", "trips",
	"routes", "route_stations", "stations", "locations",
}

// requiredColumns are columns later schema revisions added; a database that
// has the tables but not these columns was never migrated.
var requiredColumns = [][2]string{
	{"trips", "transfer_group_id"},
	{"trips", "fare_id"},
	{"cards", "last_used_at"},
}

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

// Root serves service metadata at /.
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "sistema-recarga-viajes",
		"status":  "ok",
		"api":     "/api/v1",
	})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DBCheck pings the database and verifies the required tables exist.
func DBCheck(c *gin.Context) {
	db := intconfig.DB
	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not connected"})
		return
	}
	var one int
	if err := db.QueryRow("SELECT 1").Scan(&one); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed: " + err.Error()})
		return
	}

	missingTables := []string{}
	for _, table := range requiredTables {
		if !intdb.HasTable(db, table) {
			missingTables = append(missingTables, table)
		}
	}
	missingColumns := []string{}
	for _, tc := range requiredColumns {
		if !intdb.HasColumn(db, tc[0], tc[1]) {
			missingColumns = append(missingColumns, tc[0]+"."+tc[1])
		}
	}
	if len(missingTables) > 0 || len(missingColumns) > 0 {
		c.JSON(http.StatusOK, gin.H{
			"status":          "degraded",
			"missing_tables":  missingTables,
			"missing_columns": missingColumns,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "tables_checked": len(requiredTables)})
}

// Routes lists the registered endpoints for quick inspection.
func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router not ready"})
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method": rt.Method,
			"path":   rt.Path,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
