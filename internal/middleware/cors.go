package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/indatwa/events-api/internal/http/respond"
	"github.com/indatwa/events-api/internal/metrics"
)

// CORS enforces the origin allow-list in front of every handler.
//
// Requests without an Origin header pass untouched. Allowed origins get the
// Access-Control headers; any other origin is refused with 403 before routing.
// Preflight requests from allowed origins are answered with 204.
func CORS(allowedOrigins []string, logger zerolog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	allowAll := false
	normalized := make([]string, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
			break
		}
		normalized = append(normalized, strings.ToLower(strings.TrimRight(origin, "/")))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !allowAll && !containsOrigin(normalized, origin) {
				logger.Warn().
					Str("origin", origin).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Msg("CORS request rejected: origin not allowed")
				m.CORSRejectedTotal.Inc()
				respond.Error(w, http.StatusForbidden, "CORS not allowed")
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func containsOrigin(allowed []string, origin string) bool {
	origin = strings.ToLower(origin)
	for _, candidate := range allowed {
		if candidate == origin {
			return true
		}
	}
	return false
}
