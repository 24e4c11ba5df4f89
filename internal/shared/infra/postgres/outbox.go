package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/outbox"
)

// OutboxStore implements outbox.Store using PostgreSQL.
type OutboxStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewOutboxStore creates a new OutboxStore.
func NewOutboxStore(pool *pgxpool.Pool, logger *slog.Logger) *OutboxStore {
	return &OutboxStore{
		pool:   pool,
		logger: logger.With("repository", "outbox"),
	}
}

var _ outbox.Store = (*OutboxStore)(nil)

// InsertBatch stages messages inside a single transaction so the batch is
// all-or-nothing.
func (s *OutboxStore) InsertBatch(ctx context.Context, msgs []outbox.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO outbox_messages (event_id, event_type, payload, status, attempt_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, msg := range msgs {
		batch.Queue(query, msg.EventID, msg.EventType, msg.Payload, string(msg.Status), msg.AttemptCount, msg.CreatedAt)
	}

	results := tx.SendBatch(ctx, batch)
	for range msgs {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert outbox message: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit outbox batch: %w", err)
	}

	s.logger.Debug("messages staged", "count", len(msgs))
	return nil
}

// FetchPending retrieves pending messages, oldest first.
func (s *OutboxStore) FetchPending(ctx context.Context, limit int) ([]outbox.Message, error) {
	query := `
		SELECT id, event_id, event_type, payload, status, attempt_count,
		       created_at, last_attempt_at, COALESCE(last_error, ''), processed_at
		FROM outbox_messages
		WHERE status = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, string(outbox.StatusPending), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query outbox: %w", err)
	}
	defer rows.Close()

	var msgs []outbox.Message
	for rows.Next() {
		var msg outbox.Message
		var status string
		if err := rows.Scan(
			&msg.ID, &msg.EventID, &msg.EventType, &msg.Payload, &status, &msg.AttemptCount,
			&msg.CreatedAt, &msg.LastAttemptAt, &msg.LastError, &msg.ProcessedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan outbox row: %w", err)
		}
		msg.Status = outbox.Status(status)
		msgs = append(msgs, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outbox rows: %w", err)
	}

	return msgs, nil
}

// Update persists a message's lifecycle fields.
func (s *OutboxStore) Update(ctx context.Context, msg outbox.Message) error {
	query := `
		UPDATE outbox_messages
		SET status = $2,
		    attempt_count = $3,
		    last_attempt_at = $4,
		    last_error = NULLIF($5, ''),
		    processed_at = $6
		WHERE id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		msg.ID, string(msg.Status), msg.AttemptCount, msg.LastAttemptAt, msg.LastError, msg.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update outbox message %d: %w", msg.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("outbox message %d not found", msg.ID)
	}

	return nil
}
