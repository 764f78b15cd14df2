package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/condovia/condovia-backend/pkg/httputil"
)

// Middleware authenticates requests via a Bearer token and attaches the
// user identity to the request context.
func Middleware(manager *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.JSON(w, http.StatusUnauthorized, nil)
				return
			}

			claims, err := manager.Validate(token)
			if err != nil {
				httputil.Error(w, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, httputil.UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, httputil.UsernameKey, claims.Username)
			ctx = context.WithValue(ctx, httputil.UserRoleKey, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose authenticated role does not match.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if httputil.GetUserRole(r.Context()) != role {
				httputil.JSON(w, http.StatusForbidden, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
