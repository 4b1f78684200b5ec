// middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"

	"ghagga-dashboard/auth"
	"ghagga-dashboard/models"
)

type AuthResolver interface {
	Resolve(ctx context.Context, userID int64) models.AuthState
}

type TokenValidator interface {
	Validate(raw string) (int64, error)
}

// RequireAuth guards dashboard pages. While the session user is still being
// resolved it serves the loading page and never the guarded handler; with no
// user it redirects to /login.
func RequireAuth(store sessions.Store, resolver AuthResolver, loading http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := resolver.Resolve(r.Context(), auth.SessionUserID(store, r))

			switch {
			case state.Loading:
				w.Header().Set("Cache-Control", "no-store")
				loading.ServeHTTP(w, r)
			case state.User == nil:
				http.Redirect(w, r, "/login", http.StatusFound)
			default:
				next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), state.User)))
			}
		})
	}
}

// APIAuth accepts the dashboard session first and falls back to a Bearer
// token.
func APIAuth(store sessions.Store, resolver AuthResolver, tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := auth.SessionUserID(store, r)

			if userID == 0 {
				authHeader := r.Header.Get("Authorization")
				if authHeader == "" {
					writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
					return
				}

				tokenParts := strings.SplitN(authHeader, " ", 2)
				if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
					writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header")
					return
				}

				id, err := tokens.Validate(strings.TrimSpace(tokenParts[1]))
				if err != nil {
					writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
					return
				}
				userID = id
			}

			state := resolver.Resolve(r.Context(), userID)
			if state.Loading {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusServiceUnavailable, "AUTH_LOADING", "user is still loading, retry shortly")
				return
			}
			if state.User == nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unknown user")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), state.User)))
		})
	}
}
