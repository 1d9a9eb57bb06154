package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/nohumanman/desc-comp-toolkit/internal/api/apierr"
)

// AdminAuth gates the mutating endpoints behind a shared bearer token.
// An empty configured token disables the admin surface entirely.
func AdminAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			presented := extractToken(r)
			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the bearer token from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
