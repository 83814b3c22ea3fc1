package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/FreddyB200/sistema-recarga-viajes-backend/internal/cache"

	"github.com/DATA-DOG/go-sqlmock"
)

func cardRows(id int64, balance, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"card_id", "user_id", "balance", "status", "last_recharge_at", "last_used_at"}).
		AddRow(id, nil, balance, status, nil, nil)
}

func TestRechargeEndpoint(t *testing.T) {
	mock, store := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT card_id, user_id, balance, status").WithArgs(int64(1)).
		WillReturnRows(cardRows(1, "50.00", "active"))
	mock.ExpectExec("INSERT INTO recharges").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec("UPDATE cards").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT balance FROM cards").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("75.00"))
	mock.ExpectCommit()

	if err := store.SetWithTTL(context.Background(), cache.CardBalanceKey(1), []byte(`{}`), cache.TTLCard); err != nil {
		t.Fatalf("seed: %v", err)
	}

	r := newTestRouter()
	r.POST("/api/v1/cards/recharge", RechargeCard)

	w := doRequest(t, r, http.MethodPost, "/api/v1/cards/recharge",
		`{"card_id":1,"amount":25.0,"payment_method":"cash"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		RechargeID int64   `json:"recharge_id"`
		CardID     int64   `json:"card_id"`
		NewBalance float64 `json:"new_balance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.RechargeID != 10 || resp.CardID != 1 {
		t.Fatalf("response = %+v", resp)
	}
	if resp.NewBalance != 75 {
		t.Fatalf("new_balance = %v, want 75", resp.NewBalance)
	}

	// The write must have dropped the cached balance.
	if _, err := store.Get(context.Background(), cache.CardBalanceKey(1)); err != cache.ErrMiss {
		t.Fatalf("balance key still cached (err=%v)", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRechargeEndpointCardNotFound(t *testing.T) {
	mock, _ := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT card_id, user_id, balance, status").WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"card_id"}))
	mock.ExpectRollback()

	r := newTestRouter()
	r.POST("/api/v1/cards/recharge", RechargeCard)

	w := doRequest(t, r, http.MethodPost, "/api/v1/cards/recharge",
		`{"card_id":9,"amount":25.0,"payment_method":"cash"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Error != "Card not found" || resp.Code != "not_found" {
		t.Fatalf("response = %+v", resp)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRechargeEndpointInactiveCard(t *testing.T) {
	mock, _ := newTestHandlers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT card_id, user_id, balance, status").WithArgs(int64(1)).
		WillReturnRows(cardRows(1, "50.00", "blocked"))
	mock.ExpectRollback()

	r := newTestRouter()
	r.POST("/api/v1/cards/recharge", RechargeCard)

	w := doRequest(t, r, http.MethodPost, "/api/v1/cards/recharge",
		`{"card_id":1,"amount":25.0,"payment_method":"cash"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Error != "Card is not active" {
		t.Fatalf("error = %q", resp.Error)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBalanceEndpointServesWhenCacheDown(t *testing.T) {
	mock, _ := newTestHandlers(t)
	SetCacheStore(cache.Unavailable("connection refused"))

	mock.ExpectQuery("SELECT card_id, user_id, balance, status").WithArgs(int64(7)).
		WillReturnRows(cardRows(7, "50.00", "active"))

	r := newTestRouter()
	r.GET("/api/v1/cards/:card_id/balance", GetCardBalance)

	w := doRequest(t, r, http.MethodGet, "/api/v1/cards/7/balance", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		CardID  int64   `json:"card_id"`
		Balance float64 `json:"balance"`
		Status  string  `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.CardID != 7 || resp.Balance != 50 || resp.Status != "active" {
		t.Fatalf("response = %+v", resp)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBalanceEndpointServesFromCache(t *testing.T) {
	_, store := newTestHandlers(t)

	cached := `{"card_id":3,"balance":12.5,"last_recharge":null,"status":"active"}`
	if err := store.SetWithTTL(context.Background(), cache.CardBalanceKey(3), []byte(cached), cache.TTLCard); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// No DB expectations: a hit never reaches MySQL.
	r := newTestRouter()
	r.GET("/api/v1/cards/:card_id/balance", GetCardBalance)

	w := doRequest(t, r, http.MethodGet, "/api/v1/cards/3/balance", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		CardID  int64   `json:"card_id"`
		Balance float64 `json:"balance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.CardID != 3 || resp.Balance != 12.5 {
		t.Fatalf("response = %+v", resp)
	}
}

func TestHistoryEndpointUnknownCardIsEmptyList(t *testing.T) {
	mock, store := newTestHandlers(t)

	mock.ExpectQuery("SELECT recharge_id, card_id, amount, payment_method").WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"recharge_id", "card_id", "amount", "payment_method", "recharged_at"}))

	r := newTestRouter()
	r.GET("/api/v1/cards/:card_id/history", GetCardHistory)

	w := doRequest(t, r, http.MethodGet, "/api/v1/cards/99/history", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		History []json.RawMessage `json:"history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.History == nil || len(resp.History) != 0 {
		t.Fatalf("history = %v, want empty list", resp.History)
	}

	// The empty list is cached like any other payload.
	if _, err := store.Get(context.Background(), cache.CardHistoryKey(99)); err != nil {
		t.Fatalf("empty history not cached: %v", err)
	}
}

func TestBalanceEndpointRejectsBadID(t *testing.T) {
	newTestHandlers(t)

	r := newTestRouter()
	r.GET("/api/v1/cards/:card_id/balance", GetCardBalance)

	w := doRequest(t, r, http.MethodGet, "/api/v1/cards/abc/balance", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}
