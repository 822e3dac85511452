package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"samamatroh/internal/auth"
	"samamatroh/internal/config"
	"samamatroh/internal/ledger"
	"samamatroh/internal/reservation"
	"samamatroh/internal/transfer"
	"samamatroh/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T, checks ...Check) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Port:           "0",
		JWTSecret:      testSecret,
		RateLimitRPS:   100,
		RateLimitBurst: 100,
	}
	srv := New(cfg, Handlers{
		User:        user.NewHandler(nil),
		Ledger:      ledger.NewHandler(nil),
		Reservation: reservation.NewHandler(nil),
		Transfer:    transfer.NewHandler(nil),
	}, checks...)
	t.Cleanup(srv.limiter.Close)
	return srv
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	access, _, err := auth.GenerateTokens(7, "u@example.com", role, testSecret)
	require.NoError(t, err)
	return "Bearer " + access
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	w := get(srv.Router(), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReady(t *testing.T) {
	up := Check{Name: "postgres", Ping: func(context.Context) error { return nil }}
	down := Check{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }}

	t.Run("all dependencies up", func(t *testing.T) {
		w := get(newTestServer(t, up).Router(), "/ready")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok","checks":{"postgres":"ok"}}`, w.Body.String())
	})

	t.Run("one dependency down", func(t *testing.T) {
		w := get(newTestServer(t, down).Router(), "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"unavailable","checks":{"redis":"connection refused"}}`, w.Body.String())
	})
}

func TestRoutes_RequireAuth(t *testing.T) {
	router := newTestServer(t).Router()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/me"},
		{http.MethodGet, "/reservations/my-balance"},
		{http.MethodGet, "/wallet/balance"},
		{http.MethodPost, "/reservations"},
		{http.MethodPut, "/reservations/1"},
		{http.MethodDelete, "/reservations/1"},
		{http.MethodPost, "/transactions/send"},
		{http.MethodGet, "/transactions/my-transactions"},
		{http.MethodGet, "/transactions"},
		{http.MethodDelete, "/transactions/1"},
		{http.MethodPost, "/admin/users/1/top-up"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRoutes_AdminOnly(t *testing.T) {
	router := newTestServer(t).Router()
	token := bearer(t, auth.RoleUser)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/transactions"},
		{http.MethodGet, "/transactions/1"},
		{http.MethodDelete, "/transactions/1"},
		{http.MethodPost, "/admin/users/1/top-up"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusForbidden, w.Code)
		})
	}
}

func TestStart_StopsOnCancel(t *testing.T) {
	srv := newTestServer(t)
	srv.http.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}
