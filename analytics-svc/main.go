package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	httpapi "tablebite/analytics-svc/internal/api/http"
	"tablebite/analytics-svc/internal/service"
	"tablebite/analytics-svc/internal/storage"
	"tablebite/config"
	"tablebite/pkg/auth"
	"tablebite/pkg/httpx"
)

func main() {
	config.Load()
	logger := config.SetupLogger("analytics-svc")
	httpx.InitPropagation()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The schema is owned and migrated by restaurant-svc.
	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()
	redisStore := storage.NewRedisStore(rdb, config.Duration("ANALYTICS_CACHE_TTL"))

	tokens := auth.NewTokenManager(config.MustJWTSecret(), config.Duration("JWT_TTL"))

	svc := service.NewAnalyticsService(storage.NewPostgresStore(db), redisStore, redisStore, logger)
	router := httpapi.NewRouter(httpapi.NewHandler(svc, tokens), logger)

	if err := httpapi.StartServer(ctx, config.HTTPAddr(":8082"), router, logger); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
