package featureflag

import (
	"net/http"

	"github.com/condovia/condovia-backend/pkg/httputil"
)

// Require returns middleware that consults the flag before handling a
// gated module's requests and returns a short denial when disabled.
func (s *Service) Require(flagName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !s.IsEnabled(r.Context(), flagName) {
				httputil.JSON(w, http.StatusForbidden, map[string]string{
					"module": flagName,
					"status": "disabled",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
