package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	intconfig "github.com/FreddyB200/sistema-recarga-viajes-backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func testEnv() intconfig.Env {
	return intconfig.Env{
		CORSAllowedOrigins: []string{"*"},
		JWTSecret:          "router-test-secret",
	}
}

func serve(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouterHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(testEnv())

	w := serve(r, http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Status != "ok" {
		t.Fatalf("status = %q", resp.Status)
	}
}

func TestRouterNoRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(testEnv())

	w := serve(r, http.MethodGet, "/api/v1/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Error  string `json:"error"`
		Path   string `json:"path"`
		Method string `json:"method"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Error != "route not found" || resp.Path != "/api/v1/nope" || resp.Method != http.MethodGet {
		t.Fatalf("response = %+v", resp)
	}
}

func TestCacheAdminRequiresToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(testEnv())

	w := serve(r, http.MethodGet, "/api/v1/cache/stats", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Error != "Missing or invalid Authorization header" {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestCacheAdminRejectsForgedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(testEnv())

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"operator_id": int64(1),
		"exp":         time.Now().Add(time.Hour).Unix(),
	})
	raw, err := forged.SignedString([]byte("some-other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	w := serve(r, http.MethodGet, "/api/v1/cache/stats", raw)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Error != "Invalid or expired token" {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestCacheAdminAdmitsValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	env := testEnv()
	r := NewRouter(env)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"operator_id": int64(1),
		"role":        "admin",
		"exp":         time.Now().Add(time.Hour).Unix(),
	})
	raw, err := token.SignedString([]byte(env.JWTSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	// Past the middleware the request reaches the handler, which reports the
	// unwired cache as 503 rather than 401.
	w := serve(r, http.MethodGet, "/api/v1/cache/stats", raw)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Code != "cache_unavailable" {
		t.Fatalf("code = %q", resp.Code)
	}
}

func TestCacheHealthIsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(testEnv())

	w := serve(r, http.MethodGet, "/api/v1/cache/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}
