package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"tablebite/analytics-svc/internal/domain"
	"tablebite/pkg/counters"
	"tablebite/pkg/daterange"
)

const leaderboardSize = 10

type AnalyticsService struct {
	store  Store
	cache  ResultCache
	live   LiveCounters
	logger *slog.Logger
	now    func() time.Time
}

// NewAnalyticsService builds the service. cache and live may be nil, in which
// case every report is computed from SQL.
func NewAnalyticsService(store Store, cache ResultCache, live LiveCounters, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		store:  store,
		cache:  cache,
		live:   live,
		logger: logger,
		now:    time.Now,
	}
}

func cacheKey(kind string, ownerID int64, win daterange.Window) string {
	return "analytics:cache:" + kind + ":" + strconv.FormatInt(ownerID, 10) + ":" + win.Key()
}

// cached serves key from the result cache or computes it with load. Cache
// failures are logged and never fail the request.
func cached[T any](ctx context.Context, s *AnalyticsService, key string, load func() (*T, error)) (*T, error) {
	if s.cache != nil {
		var hit T
		ok, err := s.cache.Get(ctx, key, &hit)
		if err != nil {
			s.logger.WarnContext(ctx, "analytics cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		} else if ok {
			return &hit, nil
		}
	}

	v, err := load()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, v); err != nil {
			s.logger.WarnContext(ctx, "analytics cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	return v, nil
}

// Insights totals the completed orders in the window and charts each order's revenue.
func (s *AnalyticsService) Insights(ctx context.Context, ownerID int64, win daterange.Window) (*domain.Insights, error) {
	return cached(ctx, s, cacheKey("insights", ownerID, win), func() (*domain.Insights, error) {
		orders, err := s.store.CompletedOrders(ctx, ownerID, win)
		if err != nil {
			return nil, err
		}

		total := decimal.Zero
		chart := make([]domain.RevenuePoint, 0, len(orders))
		for _, o := range orders {
			total = total.Add(decimal.NewFromFloat(o.TotalAmount))
			chart = append(chart, domain.RevenuePoint{
				Date:    o.CreatedAt.UTC().Format(domain.ChartDateLayout),
				Revenue: o.TotalAmount,
			})
		}

		return &domain.Insights{
			TotalOrders:  len(orders),
			TotalRevenue: total.Round(2).InexactFloat64(),
			ChartData:    chart,
			From:         win.From,
			To:           win.To,
		}, nil
	})
}

func (s *AnalyticsService) TopProducts(ctx context.Context, ownerID int64, win daterange.Window) (*domain.TopProducts, error) {
	return cached(ctx, s, cacheKey("top-products", ownerID, win), func() (*domain.TopProducts, error) {
		leaders, err := s.store.DailyLeaders(ctx, ownerID, win, domain.ByProduct)
		if err != nil {
			return nil, err
		}

		days := make([]domain.ProductDay, 0, len(leaders))
		for _, l := range leaders {
			days = append(days, domain.ProductDay{
				Date:          l.Date,
				TopProduct:    l.Label,
				TotalQuantity: l.Quantity,
				TotalSales:    round2(l.Sales),
			})
		}
		return &domain.TopProducts{From: win.From, To: win.To, TotalDays: len(days), ChartData: days}, nil
	})
}

func (s *AnalyticsService) TopCategories(ctx context.Context, ownerID int64, win daterange.Window) (*domain.TopCategories, error) {
	return cached(ctx, s, cacheKey("top-categories", ownerID, win), func() (*domain.TopCategories, error) {
		leaders, err := s.store.DailyLeaders(ctx, ownerID, win, domain.ByCategory)
		if err != nil {
			return nil, err
		}

		days := make([]domain.CategoryDay, 0, len(leaders))
		for _, l := range leaders {
			days = append(days, domain.CategoryDay{
				Date:          l.Date,
				TopCategory:   l.Label,
				TotalQuantity: l.Quantity,
				TotalSales:    round2(l.Sales),
			})
		}
		return &domain.TopCategories{From: win.From, To: win.To, TotalDays: len(days), ChartData: days}, nil
	})
}

// Summary computes the three window reports concurrently.
func (s *AnalyticsService) Summary(ctx context.Context, ownerID int64, win daterange.Window) (*domain.Summary, error) {
	var summary domain.Summary
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := s.Insights(gctx, ownerID, win)
		summary.Insights = v
		return err
	})
	g.Go(func() error {
		v, err := s.TopProducts(gctx, ownerID, win)
		summary.TopProducts = v
		return err
	})
	g.Go(func() error {
		v, err := s.TopCategories(gctx, ownerID, win)
		summary.TopCategories = v
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Today prefers the live counters and falls back to SQL when they are empty
// or unreachable.
func (s *AnalyticsService) Today(ctx context.Context, ownerID int64) (*domain.Today, error) {
	now := s.now()
	day := counters.Day(now)

	if s.live != nil {
		today, err := s.live.LiveToday(ctx, ownerID, day, leaderboardSize)
		if err != nil {
			s.logger.WarnContext(ctx, "live counters unavailable, using database",
				slog.Int64("owner_id", ownerID), slog.String("error", err.Error()))
		} else if today != nil {
			today.Date = day
			today.Revenue = round2(today.Revenue)
			today.Source = domain.SourceLive
			return today, nil
		}
	}

	today, err := s.store.TodayTotals(ctx, ownerID, daterange.Today(now), leaderboardSize)
	if err != nil {
		return nil, err
	}
	today.Date = day
	today.Revenue = round2(today.Revenue)
	today.Source = domain.SourceDatabase
	return today, nil
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
