package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/forgeworks/pagebridge/internal/server"
)

// AuthMiddleware validates the shared-secret Bearer token on every request.
//
// Token validation:
//   - Checks Authorization: Bearer <token> header
//   - Compares against the configured secret in constant time
func AuthMiddleware(srv server.Server, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			srv.Logger.Warn("missing authorization header",
				"path", r.URL.Path,
				"method", r.Method,
			)
			http.Error(w, "Missing authorization header", http.StatusUnauthorized)
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			srv.Logger.Warn("invalid authorization header format",
				"path", r.URL.Path,
				"method", r.Method,
			)
			http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			srv.Logger.Warn("empty bearer token",
				"path", r.URL.Path,
				"method", r.Method,
			)
			http.Error(w, "Empty bearer token", http.StatusUnauthorized)
			return
		}

		secret := srv.Config.Server.AuthToken
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			srv.Logger.Warn("invalid API token",
				"path", r.URL.Path,
				"method", r.Method,
			)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
