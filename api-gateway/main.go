package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tablebite/api-gateway/internal/gateway"
	"tablebite/config"
	"tablebite/pkg/httpx"
)

func main() {
	config.Load()
	logger := config.SetupLogger("api-gateway")
	httpx.InitPropagation()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw := gateway.NewGateway(gateway.Config{
		RestaurantSvcURL: config.String("RESTAURANT_SVC_URL"),
		AnalyticsSvcURL:  config.String("ANALYTICS_SVC_URL"),
	}, &http.Client{
		Timeout: 30 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}, logger)

	srv := httpx.NewServer(config.HTTPAddr(":8080"), gw.SetupRoutes())
	if err := httpx.Serve(ctx, srv, logger); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
