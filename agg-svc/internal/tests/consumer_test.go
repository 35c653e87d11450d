package tests

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tablebite/agg-svc/internal/domain"
	"tablebite/agg-svc/internal/mocks"
	"tablebite/agg-svc/internal/service"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newConsumer(reader service.MessageReader, store service.StoreInterface) *service.Consumer {
	c := service.NewConsumer(reader, store, discard)
	c.Backoff = time.Millisecond
	return c
}

func completed(orderID int64) domain.OrderEvent {
	return domain.OrderEvent{
		Type:        domain.EventOrderStatusChanged,
		OrderID:     orderID,
		OwnerID:     7,
		Status:      domain.StatusCompleted,
		PrevStatus:  "pending",
		TotalAmount: 220.5,
		Items:       []domain.OrderEventItem{{MenuItemID: 1, Name: "Paneer Tikka", Quantity: 2, LineTotal: 180}},
		CreatedAt:   time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func message(t *testing.T, offset int64, ev any) kafka.Message {
	t.Helper()
	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	return kafka.Message{Topic: "order-events", Offset: offset, Value: raw}
}

func TestConsumer_ProcessEvent(t *testing.T) {
	created := completed(1)
	created.Type = domain.EventOrderCreated
	created.Status = "pending"
	created.PrevStatus = ""

	cancelled := completed(2)
	cancelled.Status = domain.StatusCancelled

	ownerless := completed(3)
	ownerless.OwnerID = 0

	uncompleted := completed(4)
	uncompleted.Status = domain.StatusCancelled
	uncompleted.PrevStatus = domain.StatusCompleted

	ownerlessCancel := uncompleted
	ownerlessCancel.OwnerID = 0

	tests := []struct {
		name      string
		event     domain.OrderEvent
		setup     func(store *mocks.StoreInterface)
		wantErrIs error
		wantErr   bool
	}{
		{
			name:  "completed order is counted",
			event: completed(42),
			setup: func(store *mocks.StoreInterface) {
				store.On("RecordCompletedOrder", mock.Anything, completed(42)).Return(true, nil)
			},
		},
		{
			name:  "already counted",
			event: completed(42),
			setup: func(store *mocks.StoreInterface) {
				store.On("RecordCompletedOrder", mock.Anything, completed(42)).Return(false, nil)
			},
		},
		{
			name:  "store failure",
			event: completed(42),
			setup: func(store *mocks.StoreInterface) {
				store.On("RecordCompletedOrder", mock.Anything, completed(42)).Return(false, errors.New("redis down"))
			},
			wantErr: true,
		},
		{name: "created event ignored", event: created, setup: func(*mocks.StoreInterface) {}},
		{name: "cancelled order ignored", event: cancelled, setup: func(*mocks.StoreInterface) {}},
		{name: "ownerless event rejected", event: ownerless, setup: func(*mocks.StoreInterface) {}, wantErrIs: service.ErrInvalidEvent},
		{
			name:  "cancelled after completion is uncounted",
			event: uncompleted,
			setup: func(store *mocks.StoreInterface) {
				store.On("RevertCompletedOrder", mock.Anything, uncompleted).Return(true, nil)
			},
		},
		{
			name:  "cancellation already reverted",
			event: uncompleted,
			setup: func(store *mocks.StoreInterface) {
				store.On("RevertCompletedOrder", mock.Anything, uncompleted).Return(false, nil)
			},
		},
		{
			name:  "revert failure",
			event: uncompleted,
			setup: func(store *mocks.StoreInterface) {
				store.On("RevertCompletedOrder", mock.Anything, uncompleted).Return(false, errors.New("redis down"))
			},
			wantErr: true,
		},
		{name: "ownerless cancellation rejected", event: ownerlessCancel, setup: func(*mocks.StoreInterface) {}, wantErrIs: service.ErrInvalidEvent},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store := mocks.NewStoreInterface(t)
			testCase.setup(store)

			err := newConsumer(nil, store).ProcessEvent(context.Background(), testCase.event)

			switch {
			case testCase.wantErrIs != nil:
				assert.ErrorIs(t, err, testCase.wantErrIs)
			case testCase.wantErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestConsumer_RunCommitsHandledMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	good := message(t, 10, completed(42))
	garbage := kafka.Message{Topic: "order-events", Offset: 11, Value: []byte("{not json")}
	ignored := message(t, 12, domain.OrderEvent{Type: domain.EventOrderCreated, OrderID: 43, OwnerID: 7, Status: "pending"})

	reader := mocks.NewMessageReader(t)
	store := mocks.NewStoreInterface(t)

	reader.On("FetchMessage", mock.Anything).Return(good, nil).Once()
	reader.On("FetchMessage", mock.Anything).Return(garbage, nil).Once()
	reader.On("FetchMessage", mock.Anything).Return(ignored, nil).Once()
	reader.On("FetchMessage", mock.Anything).Run(func(mock.Arguments) { cancel() }).
		Return(kafka.Message{}, context.Canceled).Once()

	reader.On("CommitMessages", mock.Anything, []kafka.Message{good}).Return(nil).Once()
	reader.On("CommitMessages", mock.Anything, []kafka.Message{garbage}).Return(nil).Once()
	reader.On("CommitMessages", mock.Anything, []kafka.Message{ignored}).Return(nil).Once()

	store.On("RecordCompletedOrder", mock.Anything, mock.MatchedBy(func(ev domain.OrderEvent) bool {
		return ev.OrderID == 42 && ev.OwnerID == 7 && ev.Items[0].Quantity == 2
	})).Return(true, nil).Once()

	err := newConsumer(reader, store).Run(ctx)

	assert.NoError(t, err)
	reader.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestConsumer_RunRetriesStoreFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msg := message(t, 5, completed(42))
	reader := mocks.NewMessageReader(t)
	store := mocks.NewStoreInterface(t)

	reader.On("FetchMessage", mock.Anything).Return(msg, nil).Once()
	reader.On("FetchMessage", mock.Anything).Run(func(mock.Arguments) { cancel() }).
		Return(kafka.Message{}, context.Canceled).Once()
	reader.On("CommitMessages", mock.Anything, []kafka.Message{msg}).Return(nil).Once()

	store.On("RecordCompletedOrder", mock.Anything, mock.Anything).Return(false, errors.New("redis down")).Twice()
	store.On("RecordCompletedOrder", mock.Anything, mock.Anything).Return(true, nil).Once()

	require.NoError(t, newConsumer(reader, store).Run(ctx))

	store.AssertNumberOfCalls(t, "RecordCompletedOrder", 3)
	reader.AssertExpectations(t)
}

func TestConsumer_RunGivesUpAfterMaxAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msg := message(t, 5, completed(42))
	reader := mocks.NewMessageReader(t)
	store := mocks.NewStoreInterface(t)

	reader.On("FetchMessage", mock.Anything).Return(msg, nil).Once()
	reader.On("FetchMessage", mock.Anything).Run(func(mock.Arguments) { cancel() }).
		Return(kafka.Message{}, context.Canceled).Once()
	reader.On("CommitMessages", mock.Anything, []kafka.Message{msg}).Return(nil).Once()
	store.On("RecordCompletedOrder", mock.Anything, mock.Anything).Return(false, errors.New("redis down"))

	require.NoError(t, newConsumer(reader, store).Run(ctx))

	store.AssertNumberOfCalls(t, "RecordCompletedOrder", 5)
}

func TestConsumer_RunSurvivesFetchErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := mocks.NewMessageReader(t)
	reader.On("FetchMessage", mock.Anything).Return(kafka.Message{}, errors.New("broker unavailable")).Once()
	reader.On("FetchMessage", mock.Anything).Run(func(mock.Arguments) { cancel() }).
		Return(kafka.Message{}, context.Canceled).Once()

	require.NoError(t, newConsumer(reader, mocks.NewStoreInterface(t)).Run(ctx))

	reader.AssertNumberOfCalls(t, "FetchMessage", 2)
}
