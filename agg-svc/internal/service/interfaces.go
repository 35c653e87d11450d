package service

import (
	"context"

	"github.com/segmentio/kafka-go"

	"tablebite/agg-svc/internal/domain"
	"tablebite/agg-svc/internal/storage"
)

type StoreInterface interface {
	RecordCompletedOrder(ctx context.Context, ev domain.OrderEvent) (bool, error)
	RevertCompletedOrder(ctx context.Context, ev domain.OrderEvent) (bool, error)
}

// MessageReader is the subset of *kafka.Reader the consumer needs. Messages
// are committed only once they have been handled.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type ConsumerInterface interface {
	Run(ctx context.Context) error
	ProcessEvent(ctx context.Context, ev domain.OrderEvent) error
}

var (
	_ StoreInterface    = (*storage.Store)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
