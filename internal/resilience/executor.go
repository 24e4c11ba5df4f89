// Package resilience composes timeout, retry, and circuit-breaker policies
// around a unit of work against a named upstream. Failures flow through as
// classified error values; the breaker is outermost, so a whole retried
// sequence counts as a single qualifying outcome.
package resilience

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sony/gobreaker"
)

// Config holds the per-upstream policy values. One Config is applied to
// every upstream id; each id still gets its own breaker instance.
type Config struct {
	// Timeout bounds a single attempt.
	Timeout time.Duration

	// RetryCount is the number of retries after the first attempt.
	RetryCount int

	// RetryBase is the backoff base; the delay before retry k is
	// RetryBase * 2^(k-1).
	RetryBase time.Duration

	// FailureThreshold is the number of consecutive transient outcomes
	// that opens the breaker.
	FailureThreshold uint32

	// OpenDuration is how long an open breaker rejects calls before
	// admitting a single trial.
	OpenDuration time.Duration
}

// DefaultConfig provides balanced settings for HTTP upstreams.
func DefaultConfig() Config {
	return Config{
		Timeout:          10 * time.Second,
		RetryCount:       2,
		RetryBase:        time.Second,
		FailureThreshold: 3,
		OpenDuration:     30 * time.Second,
	}
}

// Executor runs operations under the composed policies. One breaker is
// maintained per upstream id, shared by all concurrent callers targeting
// that upstream.
type Executor struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewExecutor creates an executor with the given policy values.
func NewExecutor(cfg Config, logger *slog.Logger) *Executor {
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = time.Second
	}
	return &Executor{
		cfg:      cfg,
		logger:   logger.With("component", "resilience"),
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

// Execute runs op against the named upstream. op must be idempotent or
// safe to retry. The returned error, if any, is classified; breaker
// rejections come back as ClassCircuitOpen without op being invoked.
func (e *Executor) Execute(ctx context.Context, upstream string, op func(ctx context.Context) error) error {
	cb := e.breaker(upstream)

	_, err := cb.Execute(func() (any, error) {
		return nil, e.withRetry(ctx, upstream, op)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return circuitOpen(upstream)
	}
	return err
}

// State returns the breaker state for an upstream, for operational
// surfaces (health endpoints, logs).
func (e *Executor) State(upstream string) gobreaker.State {
	return e.breaker(upstream).State()
}

func (e *Executor) breaker(upstream string) *gobreaker.CircuitBreaker {
	e.mu.Lock()
	defer e.mu.Unlock()

	cb, ok := e.breakers[upstream]
	if !ok {
		cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        upstream,
			MaxRequests: 1,
			Timeout:     e.cfg.OpenDuration,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= e.cfg.FailureThreshold
			},
			IsSuccessful: func(err error) bool {
				// Only transient-classified outcomes count toward opening.
				return err == nil || !IsRetryable(err)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				e.logger.Warn("circuit breaker state change",
					"upstream", name,
					"from", from.String(),
					"to", to.String(),
				)
			},
		})
		e.breakers[upstream] = cb
	}
	return cb
}

func (e *Executor) withRetry(ctx context.Context, upstream string, op func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(uint64(e.cfg.RetryCount), retry.NewExponential(e.cfg.RetryBase))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := e.attempt(ctx, op)
		if err == nil {
			return nil
		}
		if IsRetryable(err) {
			if attempt <= e.cfg.RetryCount {
				e.logger.Warn("retrying after transient failure",
					"upstream", upstream,
					"attempt", attempt,
					"max_retries", e.cfg.RetryCount,
					"error", err,
				)
			}
			return retry.RetryableError(err)
		}
		return err
	})
	return err
}

// attempt bounds one invocation of op by the configured timeout and
// normalizes a deadline hit into a Timeout-classified error.
func (e *Executor) attempt(ctx context.Context, op func(ctx context.Context) error) error {
	attemptCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	err := op(attemptCtx)
	if err == nil {
		return nil
	}
	if attemptCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return Timeout("attempt exceeded timeout", err)
	}
	return err
}
