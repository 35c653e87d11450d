package service

import (
	"context"

	"tablebite/analytics-svc/internal/domain"
	"tablebite/pkg/daterange"
)

type Store interface {
	CompletedOrders(ctx context.Context, ownerID int64, win daterange.Window) ([]domain.CompletedOrder, error)
	DailyLeaders(ctx context.Context, ownerID int64, win daterange.Window, dim domain.Dimension) ([]domain.DailyLeader, error)
	TodayTotals(ctx context.Context, ownerID int64, win daterange.Window, limit int) (*domain.Today, error)
}

// ResultCache stores report responses for a short time. Get reports whether key was present.
type ResultCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// LiveCounters returns nil, nil when no counters exist for day.
type LiveCounters interface {
	LiveToday(ctx context.Context, ownerID int64, day string, limit int) (*domain.Today, error)
}

type AnalyticsInterface interface {
	Insights(ctx context.Context, ownerID int64, win daterange.Window) (*domain.Insights, error)
	TopProducts(ctx context.Context, ownerID int64, win daterange.Window) (*domain.TopProducts, error)
	TopCategories(ctx context.Context, ownerID int64, win daterange.Window) (*domain.TopCategories, error)
	Summary(ctx context.Context, ownerID int64, win daterange.Window) (*domain.Summary, error)
	Today(ctx context.Context, ownerID int64) (*domain.Today, error)
}

var _ AnalyticsInterface = (*AnalyticsService)(nil)
