package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"tablebite/analytics-svc/internal/domain"
	"tablebite/pkg/counters"
)

type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{Client: client, TTL: ttl}
}

// Get decodes the cached value at key into dst and reports whether it was present.
func (s *RedisStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := s.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, key, payload, s.TTL).Err()
}

// LiveToday reads the counters agg-svc maintains for day. It returns nil, nil
// when nothing has been counted yet.
func (s *RedisStore) LiveToday(ctx context.Context, ownerID int64, day string, limit int) (*domain.Today, error) {
	pipe := s.Client.Pipeline()
	top := pipe.ZRevRangeWithScores(ctx, counters.ProductsKey(day, ownerID), 0, int64(limit-1))
	totals := pipe.HGetAll(ctx, counters.RevenueKey(day, ownerID))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	if len(top.Val()) == 0 && len(totals.Val()) == 0 {
		return nil, nil
	}

	today := &domain.Today{Date: day, Products: make([]domain.ProductCount, 0, len(top.Val()))}
	for _, z := range top.Val() {
		name, _ := z.Member.(string)
		today.Products = append(today.Products, domain.ProductCount{Name: name, Quantity: int(z.Score)})
	}
	if v, ok := totals.Val()[counters.FieldRevenue]; ok {
		today.Revenue, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := totals.Val()[counters.FieldOrders]; ok {
		today.Orders, _ = strconv.Atoi(v)
	}
	return today, nil
}
