package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/cache"
	intconfig "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

// newTestHandlers hangs a sqlmock DB and a fresh MemoryStore behind the
// package wiring and restores both when the test finishes.
func newTestHandlers(t *testing.T) (sqlmock.Sqlmock, *cache.MemoryStore) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	prevDB := intconfig.DB
	intconfig.DB = db

	store := cache.NewMemoryStore()
	SetCacheStore(store)

	t.Cleanup(func() {
		SetCacheStore(nil)
		intconfig.DB = prevDB
		db.Close()
	})
	return mock, store
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func doRequest(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
