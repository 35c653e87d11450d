package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	httpapi "tablebite/agg-svc/internal/api/http"
	"tablebite/agg-svc/internal/service"
	"tablebite/agg-svc/internal/storage"
	"tablebite/config"
	"tablebite/pkg/httpx"
)

func main() {
	config.Load()
	logger := config.SetupLogger("agg-svc")
	httpx.InitPropagation()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis()
	defer rdb.Close()
	store := storage.NewStore(rdb, config.Duration("COUNTER_TTL"))

	reader := config.NewKafkaReader(config.OrderEventsTopic, config.AggGroupID)
	defer reader.Close()

	consumer := service.NewConsumer(reader, store, logger)
	srv := httpx.NewServer(config.HTTPAddr(":8083"), httpapi.NewRouter(store, logger))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Run(gctx)
	})
	g.Go(func() error {
		return httpx.Serve(gctx, srv, logger)
	})

	if err := g.Wait(); err != nil {
		logger.Error("agg-svc stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
