package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const apiKeyHeader = "x-api-key"

// RequireAPIKey enforces the static shared secret on protected endpoints.
// The comparison is an exact match; a mismatch rejects the request before
// any processing. When expected is empty, the middleware is a no-op.
func RequireAPIKey(expected string) func(http.Handler) http.Handler {
	expected = strings.TrimSpace(expected)
	return func(next http.Handler) http.Handler {
		if expected == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(apiKeyHeader)
			if subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
				http.Error(w, "invalid api key", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
