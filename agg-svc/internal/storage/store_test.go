package storage

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablebite/agg-svc/internal/domain"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, 7*24*time.Hour), mr
}

func completedEvent(orderID int64, total float64, items ...domain.OrderEventItem) domain.OrderEvent {
	return domain.OrderEvent{
		Type:        domain.EventOrderStatusChanged,
		OrderID:     orderID,
		OwnerID:     7,
		Status:      domain.StatusCompleted,
		PrevStatus:  "pending",
		TotalAmount: total,
		Items:       items,
		CreatedAt:   time.Date(2024, 6, 15, 22, 30, 0, 0, time.UTC),
		Timestamp:   time.Date(2024, 6, 16, 0, 10, 0, 0, time.UTC),
	}
}

func TestRecordCompletedOrder(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	ok, err := store.RecordCompletedOrder(ctx, completedEvent(42, 220.5,
		domain.OrderEventItem{MenuItemID: 1, Name: "Paneer Tikka", Quantity: 2, LineTotal: 180},
		domain.OrderEventItem{MenuItemID: 2, Name: "Lassi", Quantity: 1, LineTotal: 30},
	))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.RecordCompletedOrder(ctx, completedEvent(43, 93,
		domain.OrderEventItem{MenuItemID: 2, Name: "Lassi", Quantity: 3, LineTotal: 90},
	))
	require.NoError(t, err)
	assert.True(t, ok)

	products := "analytics:daily:2024-06-15:7"
	revenue := "analytics:revenue:2024-06-15:7"

	score, err := mr.ZScore(products, "Paneer Tikka")
	require.NoError(t, err)
	assert.Equal(t, 2.0, score)
	score, err = mr.ZScore(products, "Lassi")
	require.NoError(t, err)
	assert.Equal(t, 4.0, score)

	assert.Equal(t, "313.5", mr.HGet(revenue, "revenue"))
	assert.Equal(t, "2", mr.HGet(revenue, "orders"))
	assert.Equal(t, 7*24*time.Hour, mr.TTL(products))
	assert.Equal(t, 7*24*time.Hour, mr.TTL(revenue))
	assert.False(t, mr.Exists("analytics:daily:2024-06-16:7"))
}

func TestRecordCompletedOrder_Redelivery(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	ev := completedEvent(42, 100, domain.OrderEventItem{Name: "Lassi", Quantity: 1})

	ok, err := store.RecordCompletedOrder(ctx, ev)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.RecordCompletedOrder(ctx, ev)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, "1", mr.HGet("analytics:revenue:2024-06-15:7", "orders"))
	assert.True(t, mr.Exists("analytics:counted:42"))
}

func TestRecordCompletedOrder_Unavailable(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	ok, err := store.RecordCompletedOrder(context.Background(), completedEvent(42, 100))

	assert.Error(t, err)
	assert.False(t, ok)
}

func cancelledEvent(ev domain.OrderEvent) domain.OrderEvent {
	ev.Status = domain.StatusCancelled
	ev.PrevStatus = domain.StatusCompleted
	ev.Timestamp = ev.Timestamp.Add(time.Hour)
	return ev
}

func TestRevertCompletedOrder(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	kept := completedEvent(41, 93, domain.OrderEventItem{Name: "Lassi", Quantity: 3})
	done := completedEvent(42, 220.5,
		domain.OrderEventItem{Name: "Paneer Tikka", Quantity: 2},
		domain.OrderEventItem{Name: "Lassi", Quantity: 1},
	)
	for _, ev := range []domain.OrderEvent{kept, done} {
		ok, err := store.RecordCompletedOrder(ctx, ev)
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, err := store.RevertCompletedOrder(ctx, cancelledEvent(done))
	require.NoError(t, err)
	assert.True(t, ok)

	products := "analytics:daily:2024-06-15:7"
	revenue := "analytics:revenue:2024-06-15:7"

	members, err := mr.ZMembers(products)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lassi"}, members)
	score, err := mr.ZScore(products, "Lassi")
	require.NoError(t, err)
	assert.Equal(t, 3.0, score)

	total, err := strconv.ParseFloat(mr.HGet(revenue, "revenue"), 64)
	require.NoError(t, err)
	assert.InDelta(t, 93, total, 1e-9)
	assert.Equal(t, "1", mr.HGet(revenue, "orders"))
	assert.Equal(t, 7*24*time.Hour, mr.TTL("analytics:counted:42"))

	t.Run("redelivered cancellation is a no-op", func(t *testing.T) {
		ok, err := store.RevertCompletedOrder(ctx, cancelledEvent(done))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "1", mr.HGet(revenue, "orders"))
	})

	t.Run("redelivered completion is not counted again", func(t *testing.T) {
		ok, err := store.RecordCompletedOrder(ctx, done)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "1", mr.HGet(revenue, "orders"))
	})
}

func TestRevertCompletedOrder_BackToZero(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	ev := completedEvent(42, 100, domain.OrderEventItem{Name: "Tea", Quantity: 2})

	_, err := store.RecordCompletedOrder(ctx, ev)
	require.NoError(t, err)
	ok, err := store.RevertCompletedOrder(ctx, cancelledEvent(ev))
	require.NoError(t, err)
	assert.True(t, ok)

	assert.False(t, mr.Exists("analytics:daily:2024-06-15:7"))
	total, err := strconv.ParseFloat(mr.HGet("analytics:revenue:2024-06-15:7", "revenue"), 64)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Equal(t, "0", mr.HGet("analytics:revenue:2024-06-15:7", "orders"))
}

func TestRevertCompletedOrder_NeverCounted(t *testing.T) {
	store, mr := newTestStore(t)

	ok, err := store.RevertCompletedOrder(context.Background(),
		cancelledEvent(completedEvent(42, 100, domain.OrderEventItem{Name: "Tea", Quantity: 2})))

	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("analytics:revenue:2024-06-15:7"))
	assert.False(t, mr.Exists("analytics:daily:2024-06-15:7"))
}

func TestRevertCompletedOrder_Unavailable(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	ok, err := store.RevertCompletedOrder(context.Background(), cancelledEvent(completedEvent(42, 100)))

	assert.Error(t, err)
	assert.False(t, ok)
}

func TestPing(t *testing.T) {
	store, mr := newTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}
