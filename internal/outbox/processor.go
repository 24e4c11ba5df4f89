package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/resilience"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/clock"
)

// EventSender delivers one staged event to the downstream consumer.
type EventSender interface {
	SendEvent(ctx context.Context, eventID string, payload []byte) error
}

// ProcessorConfig holds configuration for the outbox processor.
type ProcessorConfig struct {
	PollInterval     time.Duration
	BatchSize        int
	MaxRetryAttempts int
	Parallel         bool
	MaxParallel      int
}

// DefaultProcessorConfig provides the standard drain cadence.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval:     10 * time.Second,
		BatchSize:        50,
		MaxRetryAttempts: 3,
		Parallel:         false,
		MaxParallel:      4,
	}
}

// Processor drains pending outbox messages on a poll loop. Delivery is
// at-least-once: a message is marked Completed only after the sender
// reports success, so a crash between send and mark causes redelivery.
type Processor struct {
	store  Store
	sender EventSender
	clock  clock.Clock
	config ProcessorConfig
	logger *slog.Logger
}

// NewProcessor creates an outbox processor.
func NewProcessor(store Store, sender EventSender, clk clock.Clock, config ProcessorConfig, logger *slog.Logger) *Processor {
	if config.MaxParallel <= 0 {
		config.MaxParallel = 1
	}
	return &Processor{
		store:  store,
		sender: sender,
		clock:  clk,
		config: config,
		logger: logger.With("component", "outbox-processor"),
	}
}

// Run polls the outbox until ctx is cancelled. A batch in flight when
// cancellation arrives is finished before Run returns.
func (p *Processor) Run(ctx context.Context) error {
	p.logger.Info("starting outbox processor",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize,
		"max_retry_attempts", p.config.MaxRetryAttempts,
		"parallel", p.config.Parallel,
	)

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		// The batch context survives cancellation so in-flight rows
		// settle into a consistent state before shutdown.
		p.processBatch(context.WithoutCancel(ctx))

		select {
		case <-ctx.Done():
			p.logger.Info("outbox processor stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (p *Processor) processBatch(ctx context.Context) {
	msgs, err := p.store.FetchPending(ctx, p.config.BatchSize)
	if err != nil {
		p.logger.Error("fetching pending messages failed", "error", err)
		return
	}
	if len(msgs) == 0 {
		return
	}

	p.logger.Debug("processing outbox batch", "count", len(msgs))

	if !p.config.Parallel {
		for _, msg := range msgs {
			p.dispatch(ctx, msg)
		}
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.MaxParallel)
	for _, msg := range msgs {
		g.Go(func() error {
			p.dispatch(gctx, msg)
			return nil
		})
	}
	g.Wait()
}

// dispatch runs the delivery lifecycle for one message. Only a message the
// state machine admits into Processing is claimed; anything else is skipped
// untouched. Every outcome is persisted; a persistence failure is logged
// and the row is left for the next cycle to reconcile.
func (p *Processor) dispatch(ctx context.Context, msg Message) {
	logger := p.logger.With(
		"outbox_id", msg.ID,
		"event_id", msg.EventID,
		"event_type", msg.EventType,
	)

	if !msg.Status.CanTransitionTo(StatusProcessing) {
		logger.Warn("message not claimable, skipping",
			"status", msg.Status,
			"terminal", msg.Status.IsTerminal(),
		)
		return
	}

	now := p.clock.Now()
	msg.Status = StatusProcessing
	msg.AttemptCount++
	msg.LastAttemptAt = &now
	if err := p.store.Update(ctx, msg); err != nil {
		logger.Error("claiming message failed", "error", err)
		return
	}

	err := p.send(ctx, msg)
	if err == nil {
		done := p.clock.Now()
		msg.Status = StatusCompleted
		msg.ProcessedAt = &done
		msg.LastError = ""
		if err := p.store.Update(ctx, msg); err != nil {
			logger.Error("marking message completed failed", "error", err)
			return
		}
		logger.Info("event delivered", "attempt", msg.AttemptCount)
		return
	}

	if resilience.IsCircuitOpen(err) {
		// The consumer was never invoked, so the attempt is not charged.
		msg.AttemptCount--
		msg.Status = StatusPending
		if err := p.store.Update(ctx, msg); err != nil {
			logger.Error("releasing message failed", "error", err)
			return
		}
		logger.Warn("delivery skipped, circuit open", "error", err)
		return
	}

	msg.LastError = err.Error()
	if msg.AttemptCount >= p.config.MaxRetryAttempts {
		msg.Status = StatusFailed
		logger.Error("message exhausted attempts, leaving as evidence",
			"attempt", msg.AttemptCount,
			"error", err,
		)
	} else {
		msg.Status = StatusPending
		logger.Warn("delivery failed, will retry",
			"attempt", msg.AttemptCount,
			"max_attempts", p.config.MaxRetryAttempts,
			"error", err,
		)
	}
	if err := p.store.Update(ctx, msg); err != nil {
		logger.Error("recording delivery failure failed", "error", err)
	}
}

// send invokes the sender with panic isolation: a panicking payload fails
// its own row instead of taking down the processor.
func (p *Processor) send(ctx context.Context, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during delivery: %v", r)
		}
	}()
	return p.sender.SendEvent(ctx, msg.EventID, msg.Payload)
}
