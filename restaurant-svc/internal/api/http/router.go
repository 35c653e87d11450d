package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"tablebite/pkg/httpx"
)

func NewRouter(handler *Handler, logger *slog.Logger) http.Handler {
	handler.Logger = logger

	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(handler.UploadDir))))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "route not found")
	})

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Idempotency-Key", "X-Request-Id"},
	}).Handler(httpx.Chain(r, httpx.Standard(logger, "restaurant-svc")...))
}

func StartServer(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	return httpx.Serve(ctx, httpx.NewServer(addr, handler), logger)
}
