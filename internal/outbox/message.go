// Package outbox implements durable at-least-once event delivery. Events
// are staged as rows alongside the work that produced them, then drained
// by a polling processor that charges delivery attempts and parks rows
// that exhaust their retry budget.
package outbox

import (
	"context"
	"time"
)

// Status is the delivery lifecycle state of an outbox message.
type Status string

const (
	// StatusPending marks a message awaiting delivery or redelivery.
	StatusPending Status = "Pending"
	// StatusProcessing marks a message claimed by a processor cycle.
	StatusProcessing Status = "Processing"
	// StatusCompleted marks a delivered message, kept as an audit record.
	StatusCompleted Status = "Completed"
	// StatusFailed marks a message that exhausted its attempt budget.
	// Failed rows stay in the table as evidence and take no further
	// automatic attempts.
	StatusFailed Status = "Failed"
)

// IsTerminal reports whether the processor takes no further action on a
// message in this state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether the lifecycle permits moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusPending || next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// Message is one staged event.
type Message struct {
	ID            int64
	EventID       string
	EventType     string
	Payload       []byte
	Status        Status
	AttemptCount  int
	CreatedAt     time.Time
	LastAttemptAt *time.Time
	LastError     string
	ProcessedAt   *time.Time
}

// Store persists outbox messages.
type Store interface {
	// InsertBatch stages a set of messages atomically: either every
	// message is staged or none are.
	InsertBatch(ctx context.Context, msgs []Message) error

	// FetchPending returns up to limit pending messages, oldest first.
	FetchPending(ctx context.Context, limit int) ([]Message, error)

	// Update persists a message's lifecycle fields by id.
	Update(ctx context.Context, msg Message) error
}
