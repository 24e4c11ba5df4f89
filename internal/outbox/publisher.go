package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gofrs/uuid/v5"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/clock"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/events"
)

// Publisher stages transaction events for delivery. Each event gets a
// fresh UUIDv7 event id, so republishing the same transaction produces a
// distinct message; deduplication is the consumer's job, keyed on the
// event id.
type Publisher struct {
	store  Store
	clock  clock.Clock
	logger *slog.Logger
}

// NewPublisher creates a publisher backed by store.
func NewPublisher(store Store, clk clock.Clock, logger *slog.Logger) *Publisher {
	return &Publisher{
		store:  store,
		clock:  clk,
		logger: logger.With("component", "outbox-publisher"),
	}
}

// Publish stages evts as one atomic batch. correlationID ties the staging
// back to the aggregation that produced it, for log correlation only.
func (p *Publisher) Publish(ctx context.Context, evts []events.TransactionEvent, customerID int64, correlationID uuid.UUID) error {
	if len(evts) == 0 {
		return nil
	}

	now := p.clock.Now()
	msgs := make([]Message, 0, len(evts))
	for _, evt := range evts {
		eventID, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generating event id: %w", err)
		}
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("encoding event %s: %w", evt.TransactionID, err)
		}
		msgs = append(msgs, Message{
			EventID:   eventID.String(),
			EventType: events.TypeTransactionCreated,
			Payload:   payload,
			Status:    StatusPending,
			CreatedAt: now,
		})
	}

	if err := p.store.InsertBatch(ctx, msgs); err != nil {
		return fmt.Errorf("staging %d events: %w", len(msgs), err)
	}

	p.logger.Info("events staged for delivery",
		"count", len(msgs),
		"customer_id", customerID,
		"correlation_id", correlationID,
	)
	return nil
}
