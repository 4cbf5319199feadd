package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/indatwa/events-api/internal/auth"
	"github.com/indatwa/events-api/internal/metrics"
	"github.com/indatwa/events-api/internal/middleware"
	"github.com/indatwa/events-api/internal/models"
	"github.com/indatwa/events-api/internal/storage"
	"github.com/indatwa/events-api/internal/storage/memory"
)

var (
	hasherOnce   sync.Once
	sharedHasher *auth.PasswordHasher
)

func testHasher(t *testing.T) *auth.PasswordHasher {
	t.Helper()
	hasherOnce.Do(func() {
		h, err := auth.NewPasswordHasher(auth.DefaultCost)
		if err != nil {
			panic(err)
		}
		sharedHasher = h
	})
	return sharedHasher
}

type testEnv struct {
	store   storage.Store
	tokens  *auth.TokenManager
	metrics *metrics.Metrics
	router  http.Handler
}

func passthrough(next http.Handler) http.Handler { return next }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, memory.New())
}

func newTestEnvWithStore(t *testing.T, store storage.Store) *testEnv {
	t.Helper()
	env := &testEnv{
		store:   store,
		tokens:  auth.NewTokenManager("test-secret", "events-api-test", time.Hour),
		metrics: metrics.New(),
	}
	deps := Deps{Logger: zerolog.Nop(), Metrics: env.metrics}
	hasher := testHasher(t)

	r := chi.NewRouter()
	NewHealthHandler(time.Now(), store, deps).Routes(r)
	r.Route("/api", func(r chi.Router) {
		NewAuthHandler(store, hasher, env.tokens, deps).Routes(r, passthrough, middleware.RequireAuth(env.tokens))
		r.Route("/bookings", NewBookingHandler(store, deps).Routes)
		r.Route("/users", NewUserHandler(store, hasher, deps).Routes)
	})
	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

var errBoom = errors.New("pq: connection reset by peer at 10.0.0.5")

// brokenStore fails every call the way a lost database connection would.
type brokenStore struct{}

var _ storage.Store = brokenStore{}

func (brokenStore) fail(op string) error { return &storage.StoreError{Op: op, Err: errBoom} }

func (s brokenStore) Ping(context.Context) error { return s.fail("ping") }
func (brokenStore) Close()                       {}
func (s brokenStore) ListUsers(context.Context) ([]models.User, error) {
	return nil, s.fail("list users")
}
func (s brokenStore) CreateUser(context.Context, models.User) (models.User, error) {
	return models.User{}, s.fail("create user")
}
func (s brokenStore) FindByUsername(context.Context, string) (models.User, error) {
	return models.User{}, s.fail("find user")
}
func (s brokenStore) UpdateUser(context.Context, int64, models.UserUpdate) (models.User, error) {
	return models.User{}, s.fail("update user")
}
func (s brokenStore) DeleteUser(context.Context, int64) error { return s.fail("delete user") }
func (s brokenStore) SeedUser(context.Context, models.User) (bool, error) {
	return false, s.fail("seed user")
}
func (s brokenStore) CreateBooking(context.Context, models.BookingFields) (models.Booking, error) {
	return models.Booking{}, s.fail("create booking")
}
func (s brokenStore) ListBookings(context.Context) ([]models.Booking, error) {
	return nil, s.fail("list bookings")
}
func (s brokenStore) GetBooking(context.Context, int64) (models.Booking, error) {
	return models.Booking{}, s.fail("get booking")
}
func (s brokenStore) UpdateBooking(context.Context, int64, models.BookingFields) (models.Booking, error) {
	return models.Booking{}, s.fail("update booking")
}
func (s brokenStore) DeleteBooking(context.Context, int64) error { return s.fail("delete booking") }
