package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/clock"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/events"
)

func testEvents(n int) []events.TransactionEvent {
	evts := make([]events.TransactionEvent, n)
	for i := range evts {
		evts[i] = events.TransactionEvent{
			TransactionID:    uuid.Must(uuid.NewV4()).String(),
			CustomerID:       1001,
			AccountID:        10000,
			Amount:           decimal.NewFromFloat(12.50),
			Currency:         "USD",
			MerchantName:     "Coffee Corner",
			MerchantCategory: "Dining",
			TransactionDate:  time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC),
			TransactionType:  "Debit",
		}
	}
	return evts
}

func TestPublishStagesOneMessagePerEvent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var staged []Message
	store := &mockStore{
		InsertBatchFn: func(ctx context.Context, msgs []Message) error {
			staged = msgs
			return nil
		},
	}

	p := NewPublisher(store, clock.FixedClock{Time: now}, slog.Default())
	err := p.Publish(context.Background(), testEvents(3), 1001, uuid.Must(uuid.NewV7()))
	require.NoError(t, err)
	require.Len(t, staged, 3)

	seen := make(map[string]bool)
	for _, msg := range staged {
		assert.Equal(t, events.TypeTransactionCreated, msg.EventType)
		assert.Equal(t, StatusPending, msg.Status)
		assert.Zero(t, msg.AttemptCount)
		assert.Equal(t, now, msg.CreatedAt)

		id, err := uuid.FromString(msg.EventID)
		require.NoError(t, err)
		assert.Equal(t, uuid.V7, id.Version())
		assert.False(t, seen[msg.EventID], "event ids must be unique")
		seen[msg.EventID] = true

		var evt events.TransactionEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &evt))
		assert.Equal(t, int64(1001), evt.CustomerID)
		assert.Equal(t, "Coffee Corner", evt.MerchantName)
	}
}

func TestPublishEmptySetIsNoop(t *testing.T) {
	store := &mockStore{
		InsertBatchFn: func(ctx context.Context, msgs []Message) error {
			t.Fatal("InsertBatch should not be called for an empty set")
			return nil
		},
	}

	p := NewPublisher(store, clock.RealClock{}, slog.Default())
	assert.NoError(t, p.Publish(context.Background(), nil, 1001, uuid.Must(uuid.NewV7())))
}

func TestPublishPropagatesStoreFailure(t *testing.T) {
	boom := errors.New("db down")
	store := &mockStore{
		InsertBatchFn: func(ctx context.Context, msgs []Message) error {
			return boom
		},
	}

	p := NewPublisher(store, clock.RealClock{}, slog.Default())
	err := p.Publish(context.Background(), testEvents(1), 1001, uuid.Must(uuid.NewV7()))
	assert.ErrorIs(t, err, boom)
}
