package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/indatwa/events-api/internal/auth"
	"github.com/indatwa/events-api/internal/http/respond"
	"github.com/indatwa/events-api/internal/models"
)

type contextKey string

const identityKey contextKey = "identity"

// RequireAuth validates the bearer token and stores the identity in context.
func RequireAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				respond.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			identity, err := tokens.Parse(strings.TrimSpace(token))
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the identity set by RequireAuth.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}
