package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"tablebite/agg-svc/internal/domain"
	"tablebite/pkg/counters"
)

const (
	markerCounted  = "1"
	markerReverted = "reverted"
)

// revertScript takes an order back out of its day's counters. It only acts
// while the order's marker says counted, and flips the marker in the same
// step so a redelivered cancellation cannot subtract twice.
//
// KEYS: marker, products, revenue. ARGV: -revenue, then name/-quantity pairs.
var revertScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) ~= '` + markerCounted + `' then
	return 0
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl > 0 then
	redis.call('SET', KEYS[1], '` + markerReverted + `', 'PX', ttl)
else
	redis.call('SET', KEYS[1], '` + markerReverted + `')
end
for i = 2, #ARGV, 2 do
	redis.call('ZINCRBY', KEYS[2], ARGV[i + 1], ARGV[i])
end
redis.call('ZREMRANGEBYSCORE', KEYS[2], '-inf', '0')
redis.call('HINCRBYFLOAT', KEYS[3], '` + counters.FieldRevenue + `', ARGV[1])
redis.call('HINCRBY', KEYS[3], '` + counters.FieldOrders + `', -1)
return 1
`)

// Store keeps the per-day counters read by analytics-svc.
type Store struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{Client: client, TTL: ttl}
}

func (s *Store) countedKey(orderID int64) string {
	return "analytics:counted:" + strconv.FormatInt(orderID, 10)
}

// RecordCompletedOrder adds the order to its day's counters. It returns false
// without touching the counters when the order was already recorded, so
// redelivered events are not counted twice.
func (s *Store) RecordCompletedOrder(ctx context.Context, ev domain.OrderEvent) (bool, error) {
	marker := s.countedKey(ev.OrderID)
	claimed, err := s.Client.SetNX(ctx, marker, markerCounted, s.TTL).Result()
	if err != nil {
		return false, err
	}
	if !claimed {
		return false, nil
	}

	day := counters.Day(ev.Day())
	products := counters.ProductsKey(day, ev.OwnerID)
	revenue := counters.RevenueKey(day, ev.OwnerID)

	_, err = s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, item := range ev.Items {
			pipe.ZIncrBy(ctx, products, float64(item.Quantity), item.Name)
		}
		pipe.HIncrByFloat(ctx, revenue, counters.FieldRevenue, ev.TotalAmount)
		pipe.HIncrBy(ctx, revenue, counters.FieldOrders, 1)
		pipe.Expire(ctx, products, s.TTL)
		pipe.Expire(ctx, revenue, s.TTL)
		return nil
	})
	if err != nil {
		s.Client.Del(context.WithoutCancel(ctx), marker)
		return false, err
	}
	return true, nil
}

// RevertCompletedOrder removes a cancelled order from the counters it was
// added to. It returns false when the order was never counted or has already
// been reverted.
func (s *Store) RevertCompletedOrder(ctx context.Context, ev domain.OrderEvent) (bool, error) {
	day := counters.Day(ev.Day())
	keys := []string{
		s.countedKey(ev.OrderID),
		counters.ProductsKey(day, ev.OwnerID),
		counters.RevenueKey(day, ev.OwnerID),
	}
	args := []any{strconv.FormatFloat(-ev.TotalAmount, 'f', -1, 64)}
	for _, item := range ev.Items {
		args = append(args, item.Name, strconv.Itoa(-item.Quantity))
	}

	reverted, err := revertScript.Run(ctx, s.Client, keys, args...).Int()
	if err != nil {
		return false, err
	}
	return reverted == 1, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}
