package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indatwa/events-api/internal/auth"
	"github.com/indatwa/events-api/internal/config"
	"github.com/indatwa/events-api/internal/metrics"
	"github.com/indatwa/events-api/internal/storage/memory"
)

func newTestRouter(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	hasher, err := auth.NewPasswordHasher(auth.DefaultCost)
	require.NoError(t, err)
	if cfg.Auth.LoginRatePerMinute == 0 {
		cfg.Auth.LoginRatePerMinute = 600
		cfg.Auth.LoginRateBurst = 100
	}
	return NewRouter(cfg, Dependencies{
		Store:   memory.New(),
		Hasher:  hasher,
		Tokens:  auth.NewTokenManager("secret", "events-api-test", time.Hour),
		Logger:  zerolog.Nop(),
		Metrics: metrics.New(),
	})
}

func send(h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestUserScenario(t *testing.T) {
	h := newTestRouter(t, config.Config{})

	rec := send(h, http.MethodPost, "/api/users", `{"username":"alice","password":"Secret1!","role":"staff"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, float64(1), created["id"])
	assert.Equal(t, "alice", created["username"])
	assert.Equal(t, "staff", created["role"])
	assert.Contains(t, created, "created_at")
	assert.Len(t, created, 4)

	rec = send(h, http.MethodPost, "/api/users", `{"username":"alice","password":"Secret1!","role":"staff"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"message":"Username already exists."}`, rec.Body.String())

	rec = send(h, http.MethodPost, "/api/login", `{"username":"alice","password":"Secret1!"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.Equal(t, map[string]any{"id": float64(1), "username": "alice", "role": "staff"}, login.User)

	rec = send(h, http.MethodGet, "/api/me", "", "Authorization", "Bearer "+login.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBoundaryRejectsUnknownOriginBeforeRouting(t *testing.T) {
	h := newTestRouter(t, config.Config{AllowedOrigins: "https://indatwaevents.com"})

	rec := send(h, http.MethodPost, "/api/users", `{"username":"x","password":"y","role":"z"}`, "Origin", "https://evil.example")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = send(h, http.MethodGet, "/api/users", "")
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = send(h, http.MethodGet, "/api/users", "", "Origin", "https://indatwaevents.com")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://indatwaevents.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflightAnsweredForAnyPath(t *testing.T) {
	h := newTestRouter(t, config.Config{AllowedOrigins: "https://indatwaevents.com"})

	for _, path := range []string{"/api/login", "/api/bookings/7", "/api/users/2", "/anything"} {
		rec := send(h, http.MethodOptions, path, "",
			"Origin", "https://indatwaevents.com",
			"Access-Control-Request-Method", "PUT")
		assert.Equal(t, http.StatusNoContent, rec.Code, path)
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	h := newTestRouter(t, config.Config{})

	rec := send(h, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Route not found"}`, rec.Body.String())

	rec = send(h, http.MethodPatch, "/api/users/1", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLoginIsRateLimited(t *testing.T) {
	cfg := config.Config{}
	cfg.Auth.LoginRatePerMinute = 1
	cfg.Auth.LoginRateBurst = 2
	h := newTestRouter(t, cfg)

	for i := 0; i < 2; i++ {
		rec := send(h, http.MethodPost, "/api/login", `{"username":"x","password":"y"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := send(h, http.MethodPost, "/api/login", `{"username":"x","password":"y"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Other routes are not throttled.
	assert.Equal(t, http.StatusOK, send(h, http.MethodGet, "/api/bookings", "").Code)
}

func TestMetricsEndpointUsesRoutePatterns(t *testing.T) {
	h := newTestRouter(t, config.Config{})

	send(h, http.MethodGet, "/api/bookings/12", "")
	send(h, http.MethodGet, "/api/bookings/13", "")

	rec := send(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(),
		`events_api_http_requests_total{method="GET",route="/api/bookings/{id}",status="404"} 2`)
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, config.Config{})
	rec := send(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
