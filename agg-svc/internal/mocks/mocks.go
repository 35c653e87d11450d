package mocks

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"

	"tablebite/agg-svc/internal/domain"
)

type StoreInterface struct {
	mock.Mock
}

func NewStoreInterface(t mock.TestingT) *StoreInterface {
	m := &StoreInterface{}
	m.Test(t)
	return m
}

func (m *StoreInterface) RecordCompletedOrder(ctx context.Context, ev domain.OrderEvent) (bool, error) {
	args := m.Called(ctx, ev)
	return args.Bool(0), args.Error(1)
}

func (m *StoreInterface) RevertCompletedOrder(ctx context.Context, ev domain.OrderEvent) (bool, error) {
	args := m.Called(ctx, ev)
	return args.Bool(0), args.Error(1)
}

type MessageReader struct {
	mock.Mock
}

func NewMessageReader(t mock.TestingT) *MessageReader {
	m := &MessageReader{}
	m.Test(t)
	return m
}

func (m *MessageReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	args := m.Called(ctx)
	msg, _ := args.Get(0).(kafka.Message)
	return msg, args.Error(1)
}

func (m *MessageReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}
