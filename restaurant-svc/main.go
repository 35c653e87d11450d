package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"tablebite/config"
	"tablebite/pkg/auth"
	"tablebite/pkg/httpx"
	httpapi "tablebite/restaurant-svc/internal/api/http"
	"tablebite/restaurant-svc/internal/service"
	"tablebite/restaurant-svc/internal/storage"
)

func main() {
	config.Load()
	logger := config.SetupLogger("restaurant-svc")
	httpx.InitPropagation()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres()
	defer db.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		logger.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rdb := config.MustInitRedis()
	defer rdb.Close()
	cache := storage.NewRedisCache(rdb, config.Duration("TENANT_CACHE_TTL"), config.Duration("IDEMPOTENCY_TTL"))

	writer := config.NewKafkaWriter(config.OrderEventsTopic)
	defer writer.Close()
	publisher := storage.NewKafkaPublisher(writer)

	uploadDir := config.String("UPLOAD_DIR")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		logger.Error("failed to create upload dir", slog.String("error", err.Error()))
		os.Exit(1)
	}

	tokens := auth.NewTokenManager(config.MustJWTSecret(), config.Duration("JWT_TTL"))

	authSvc := service.NewAuthService(repo, repo, tokens, service.DefaultQRGenerator{})
	restSvc := service.NewRestaurantService(repo, cache, logger)
	menuSvc := service.NewMenuService(repo)
	orderSvc := service.NewOrderService(repo, repo, repo, cache, publisher, logger)

	handler := httpapi.NewHandler(authSvc, restSvc, menuSvc, orderSvc, tokens, uploadDir)
	router := httpapi.NewRouter(handler, logger)

	if err := httpapi.StartServer(ctx, config.HTTPAddr(":8081"), router, logger); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
