package api

import (
	"net/http"

	"github.com/forgeworks/pagebridge/internal/server"
)

// New builds the API route tree. All routes except health sit behind the
// shared-secret auth middleware.
func New(srv server.Server) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/api/v1/health", HealthHandler(srv))
	mux.Handle("/api/v1/pages", AuthMiddleware(srv, PagesHandler(srv)))
	mux.Handle("/api/v1/query", AuthMiddleware(srv, QueryHandler(srv)))
	mux.Handle("/api/v1/archive", AuthMiddleware(srv, ArchiveHandler(srv)))
	mux.Handle("/api/v1/export", AuthMiddleware(srv, ExportHandler(srv)))

	return mux
}

// HealthHandler reports liveness. Unauthenticated by design so load
// balancers can probe it.
func HealthHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		respondJSON(srv, w, http.StatusOK, map[string]interface{}{
			"ok":     true,
			"status": "healthy",
		})
	})
}
