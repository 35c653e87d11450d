package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"tablebite/analytics-svc/internal/domain"
	"tablebite/pkg/daterange"
)

type Store struct {
	mock.Mock
}

func NewStore(t mock.TestingT) *Store {
	m := &Store{}
	m.Test(t)
	return m
}

func (m *Store) CompletedOrders(ctx context.Context, ownerID int64, win daterange.Window) ([]domain.CompletedOrder, error) {
	args := m.Called(ctx, ownerID, win)
	v, _ := args.Get(0).([]domain.CompletedOrder)
	return v, args.Error(1)
}

func (m *Store) DailyLeaders(ctx context.Context, ownerID int64, win daterange.Window, dim domain.Dimension) ([]domain.DailyLeader, error) {
	args := m.Called(ctx, ownerID, win, dim)
	v, _ := args.Get(0).([]domain.DailyLeader)
	return v, args.Error(1)
}

func (m *Store) TodayTotals(ctx context.Context, ownerID int64, win daterange.Window, limit int) (*domain.Today, error) {
	args := m.Called(ctx, ownerID, win, limit)
	v, _ := args.Get(0).(*domain.Today)
	return v, args.Error(1)
}

// ResultCache returns its configured hit by JSON-copying it into dst.
type ResultCache struct {
	mock.Mock
}

func NewResultCache(t mock.TestingT) *ResultCache {
	m := &ResultCache{}
	m.Test(t)
	return m
}

func (m *ResultCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	args := m.Called(ctx, key, dst)
	if hit := args.Get(0); hit != nil {
		raw, err := json.Marshal(hit)
		if err != nil {
			return false, err
		}
		return true, json.Unmarshal(raw, dst)
	}
	return false, args.Error(1)
}

func (m *ResultCache) Set(ctx context.Context, key string, v any) error {
	args := m.Called(ctx, key, v)
	return args.Error(0)
}

type LiveCounters struct {
	mock.Mock
}

func NewLiveCounters(t mock.TestingT) *LiveCounters {
	m := &LiveCounters{}
	m.Test(t)
	return m
}

func (m *LiveCounters) LiveToday(ctx context.Context, ownerID int64, day string, limit int) (*domain.Today, error) {
	args := m.Called(ctx, ownerID, day, limit)
	v, _ := args.Get(0).(*domain.Today)
	return v, args.Error(1)
}

type AnalyticsInterface struct {
	mock.Mock
}

func NewAnalyticsInterface(t mock.TestingT) *AnalyticsInterface {
	m := &AnalyticsInterface{}
	m.Test(t)
	return m
}

func (m *AnalyticsInterface) Insights(ctx context.Context, ownerID int64, win daterange.Window) (*domain.Insights, error) {
	args := m.Called(ctx, ownerID, win)
	v, _ := args.Get(0).(*domain.Insights)
	return v, args.Error(1)
}

func (m *AnalyticsInterface) TopProducts(ctx context.Context, ownerID int64, win daterange.Window) (*domain.TopProducts, error) {
	args := m.Called(ctx, ownerID, win)
	v, _ := args.Get(0).(*domain.TopProducts)
	return v, args.Error(1)
}

func (m *AnalyticsInterface) TopCategories(ctx context.Context, ownerID int64, win daterange.Window) (*domain.TopCategories, error) {
	args := m.Called(ctx, ownerID, win)
	v, _ := args.Get(0).(*domain.TopCategories)
	return v, args.Error(1)
}

func (m *AnalyticsInterface) Summary(ctx context.Context, ownerID int64, win daterange.Window) (*domain.Summary, error) {
	args := m.Called(ctx, ownerID, win)
	v, _ := args.Get(0).(*domain.Summary)
	return v, args.Error(1)
}

func (m *AnalyticsInterface) Today(ctx context.Context, ownerID int64) (*domain.Today, error) {
	args := m.Called(ctx, ownerID)
	v, _ := args.Get(0).(*domain.Today)
	return v, args.Error(1)
}
