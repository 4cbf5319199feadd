package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/indatwa/events-api/internal/auth"
	"github.com/indatwa/events-api/internal/config"
	"github.com/indatwa/events-api/internal/http/handlers"
	"github.com/indatwa/events-api/internal/http/respond"
	"github.com/indatwa/events-api/internal/metrics"
	"github.com/indatwa/events-api/internal/middleware"
	"github.com/indatwa/events-api/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// Dependencies are the collaborators the router needs; main builds them once
// per process.
type Dependencies struct {
	Store   storage.Store
	Hasher  *auth.PasswordHasher
	Tokens  *auth.TokenManager
	Logger  zerolog.Logger
	Metrics *metrics.Metrics
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, deps Dependencies) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewRouter(cfg, deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// NewRouter builds the full handler tree: origin filter first, then routing.
func NewRouter(cfg config.Config, deps Dependencies) http.Handler {
	hdeps := handlers.Deps{Logger: deps.Logger, Metrics: deps.Metrics}
	limiter := middleware.NewClientLimiter(cfg.Auth.LoginRatePerMinute, cfg.Auth.LoginRateBurst)

	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		middleware.RequestLogging(deps.Logger),
		middleware.Metrics(deps.Metrics),
		chimw.Recoverer,
		middleware.CORS(cfg.Origins(), deps.Logger, deps.Metrics),
	)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	handlers.NewHealthHandler(time.Now(), deps.Store, hdeps).Routes(r)
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	authHandler := handlers.NewAuthHandler(deps.Store, deps.Hasher, deps.Tokens, hdeps)
	bookings := handlers.NewBookingHandler(deps.Store, hdeps)
	users := handlers.NewUserHandler(deps.Store, deps.Hasher, hdeps)

	r.Route("/api", func(r chi.Router) {
		authHandler.Routes(r, middleware.RateLimit(limiter, deps.Metrics), middleware.RequireAuth(deps.Tokens))
		r.Route("/bookings", bookings.Routes)
		r.Route("/users", users.Routes)
	})

	return r
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
