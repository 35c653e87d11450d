package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"tablebite/pkg/httpx"
)

// Pinger reports whether the counter store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter exposes the health endpoint of the aggregation worker.
func NewRouter(store Pinger, logger *slog.Logger) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, code := "healthy", http.StatusOK
		if err := store.Ping(ctx); err != nil {
			logger.WarnContext(ctx, "redis ping failed", slog.String("error", err.Error()))
			status, code = "degraded", http.StatusServiceUnavailable
		}
		httpx.WriteJSON(w, code, map[string]any{
			"status":    status,
			"service":   "agg-svc",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}).Methods("GET")

	return httpx.Chain(r, httpx.Standard(logger, "agg-svc")...)
}
