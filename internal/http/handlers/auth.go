package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/indatwa/events-api/internal/auth"
	"github.com/indatwa/events-api/internal/http/respond"
	"github.com/indatwa/events-api/internal/metrics"
	"github.com/indatwa/events-api/internal/middleware"
	"github.com/indatwa/events-api/internal/models/dto"
	"github.com/indatwa/events-api/internal/storage"
)

const msgInvalidCredentials = "Invalid username or password"

// AuthHandler owns the login endpoint. It never reveals whether the username
// or the password was wrong.
type AuthHandler struct {
	store  storage.UserStore
	hasher *auth.PasswordHasher
	tokens *auth.TokenManager
	deps   Deps
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.UserStore, hasher *auth.PasswordHasher, tokens *auth.TokenManager, deps Deps) *AuthHandler {
	return &AuthHandler{store: store, hasher: hasher, tokens: tokens, deps: deps}
}

// Routes attaches /login behind loginLimit and /me behind requireAuth.
func (h *AuthHandler) Routes(r chi.Router, loginLimit, requireAuth func(http.Handler) http.Handler) {
	r.With(loginLimit).Post("/login", h.handleLogin)
	r.With(requireAuth).Get("/me", h.handleMe)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	user, err := h.store.FindByUsername(r.Context(), req.Username)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		h.hasher.VerifyDummy(req.Password)
		h.reject(w)
		return
	case err != nil:
		h.deps.Metrics.LoginAttemptsTotal.WithLabelValues(metrics.LoginError).Inc()
		h.deps.storeFailure(w, r, "find user", err, "Server error")
		return
	}
	if !h.hasher.Verify(req.Password, user.PasswordHash) {
		h.reject(w)
		return
	}

	identity := user.Identity()
	token, err := h.tokens.Generate(identity)
	if err != nil {
		h.deps.Logger.Error().Err(err).Int64("user_id", user.ID).Msg("sign token")
		h.deps.Metrics.LoginAttemptsTotal.WithLabelValues(metrics.LoginError).Inc()
		respond.Error(w, http.StatusInternalServerError, "Server error")
		return
	}
	h.deps.Metrics.LoginAttemptsTotal.WithLabelValues(metrics.LoginSuccess).Inc()
	respond.JSON(w, http.StatusOK, dto.LoginResponse{Token: token, User: identity})
}

func (h *AuthHandler) reject(w http.ResponseWriter) {
	h.deps.Metrics.LoginAttemptsTotal.WithLabelValues(metrics.LoginInvalid).Inc()
	respond.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
}

// handleMe echoes the identity carried by the caller's token.
func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	respond.JSON(w, http.StatusOK, dto.LoginResponse{User: identity})
}
