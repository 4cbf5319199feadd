package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/indatwa/events-api/internal/http/respond"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler returns uptime and dependency status.
type HealthHandler struct {
	startedAt time.Time
	store     pinger
	deps      Deps
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(startedAt time.Time, store pinger, deps Deps) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, store: store, deps: deps}
}

// Routes wires /health (liveness) and /health/ready (store reachable).
func (h *HealthHandler) Routes(r chi.Router) {
	r.Get("/health", h.handleLive)
	r.Get("/health/ready", h.handleReady)
}

func (h *HealthHandler) handleLive(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}

func (h *HealthHandler) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		h.deps.Logger.Warn().Err(err).Msg("readiness check failed")
		respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
