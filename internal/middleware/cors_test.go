package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/indatwa/events-api/internal/metrics"
)

var allowed = []string{"https://indatwaevents.com", "https://www.indatwaevents.com/"}

func corsHandler(origins []string, m *metrics.Metrics, reached *bool) http.Handler {
	return CORS(origins, zerolog.Nop(), m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = true
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORSNoOriginPasses(t *testing.T) {
	reached := false
	h := corsHandler(allowed, metrics.New(), &reached)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookings", nil))

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowedOrigin(t *testing.T) {
	reached := false
	h := corsHandler(allowed, metrics.New(), &reached)

	for _, origin := range []string{"https://indatwaevents.com", "https://WWW.indatwaevents.com"} {
		reached = false
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.True(t, reached, origin)
		assert.Equal(t, origin, rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	}
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	reached := false
	m := metrics.New()
	h := corsHandler(allowed, m, &reached)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"CORS not allowed"}`, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CORSRejectedTotal))
}

func TestCORSPreflight(t *testing.T) {
	reached := false
	h := corsHandler(allowed, metrics.New(), &reached)

	req := httptest.NewRequest(http.MethodOptions, "/api/bookings/3", nil)
	req.Header.Set("Origin", "https://indatwaevents.com")
	req.Header.Set("Access-Control-Request-Method", "DELETE")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, reached)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))

	req = httptest.NewRequest(http.MethodOptions, "/api/bookings/3", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCORSWildcard(t *testing.T) {
	reached := false
	h := corsHandler([]string{"*"}, metrics.New(), &reached)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, reached)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
