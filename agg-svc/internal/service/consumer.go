package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"tablebite/agg-svc/internal/domain"
)

const (
	maxAttempts  = 5
	retryBackoff = 200 * time.Millisecond
)

var ErrInvalidEvent = errors.New("invalid order event")

type Consumer struct {
	Reader  MessageReader
	Store   StoreInterface
	Logger  *slog.Logger
	Backoff time.Duration
}

func NewConsumer(reader MessageReader, store StoreInterface, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{
		Reader:  reader,
		Store:   store,
		Logger:  logger,
		Backoff: retryBackoff,
	}
}

// Run consumes order events until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	c.Logger.Info("starting order events consumer")
	for {
		msg, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.Logger.Error("failed to fetch message", slog.String("error", err.Error()))
			if !c.sleep(ctx, c.Backoff) {
				return nil
			}
			continue
		}

		c.handleMessage(ctx, msg)
		if ctx.Err() != nil {
			// Left uncommitted so the event is redelivered after restart.
			return nil
		}

		if err := c.Reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.Logger.Error("failed to commit message",
				slog.Int64("offset", msg.Offset), slog.String("error", err.Error()))
		}
	}
}

// handleMessage decodes and applies one message. Undecodable messages are
// dropped; store failures are retried with a linear backoff before giving up.
func (c *Consumer) handleMessage(ctx context.Context, msg kafka.Message) {
	ctx, span := otel.Tracer("agg-svc").Start(ctx, "Consumer.handleMessage")
	defer span.End()

	var ev domain.OrderEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		span.SetStatus(codes.Error, "undecodable message")
		c.Logger.Error("failed to unmarshal order event",
			slog.Int64("offset", msg.Offset), slog.String("error", err.Error()))
		return
	}
	span.SetAttributes(
		attribute.String("event.type", ev.Type),
		attribute.Int64("order.id", ev.OrderID),
		attribute.Int64("owner.id", ev.OwnerID),
	)

	for attempt := 1; ; attempt++ {
		err := c.ProcessEvent(ctx, ev)
		if err == nil {
			return
		}
		if errors.Is(err, ErrInvalidEvent) || attempt == maxAttempts || !c.sleep(ctx, time.Duration(attempt)*c.Backoff) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "counter update failed")
			c.Logger.Error("dropping order event",
				slog.Int64("order_id", ev.OrderID), slog.Int("attempts", attempt), slog.String("error", err.Error()))
			return
		}
		c.Logger.Warn("retrying order event",
			slog.Int64("order_id", ev.OrderID), slog.Int("attempt", attempt), slog.String("error", err.Error()))
	}
}

// ProcessEvent keeps the counters in line with completed orders: it adds
// orders that just completed, takes back completed orders that were
// cancelled and ignores every other event.
func (c *Consumer) ProcessEvent(ctx context.Context, ev domain.OrderEvent) error {
	completes, reverts := ev.Completes(), ev.Reverts()
	if !completes && !reverts {
		return nil
	}
	if ev.OwnerID == 0 {
		return fmt.Errorf("%w: order %d has no owner", ErrInvalidEvent, ev.OrderID)
	}

	if reverts {
		reverted, err := c.Store.RevertCompletedOrder(ctx, ev)
		if err != nil {
			return err
		}
		if !reverted {
			c.Logger.Info("order not counted, nothing to revert", slog.Int64("order_id", ev.OrderID))
			return nil
		}
		c.Logger.Info("order uncounted",
			slog.Int64("order_id", ev.OrderID),
			slog.Int64("owner_id", ev.OwnerID),
			slog.Float64("total_amount", ev.TotalAmount))
		return nil
	}

	recorded, err := c.Store.RecordCompletedOrder(ctx, ev)
	if err != nil {
		return err
	}
	if !recorded {
		c.Logger.Info("order already counted", slog.Int64("order_id", ev.OrderID))
		return nil
	}

	c.Logger.Info("order counted",
		slog.Int64("order_id", ev.OrderID),
		slog.Int64("owner_id", ev.OwnerID),
		slog.Float64("total_amount", ev.TotalAmount))
	return nil
}

func (c *Consumer) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
