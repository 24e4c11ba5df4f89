// Package cache implements a process-local stale-while-revalidate cache.
//
// Entries carry their fetch timestamp and an expiry window. Fresh hits are
// served directly; stale hits are served immediately while a single
// coalesced background refresh runs; lapsed entries trigger a synchronous
// re-fetch and are only served as an explicit fallback when that fetch
// fails.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/clock"
)

// Freshness describes how a served value relates to its source.
type Freshness int

const (
	// Fresh values are within the stale threshold (or were just fetched).
	Fresh Freshness = iota
	// Stale values were served from an aging entry while a background
	// refresh runs.
	Stale
	// Fallback values were served from a retained entry because the
	// synchronous fetch failed.
	Fallback
)

// NoCacheError reports a fetch failure with no cached value to fall back
// to. It wraps the classified fetch error.
type NoCacheError struct {
	Err error
}

func (e *NoCacheError) Error() string {
	return fmt.Sprintf("no cached value available: %v", e.Err)
}

func (e *NoCacheError) Unwrap() error {
	return e.Err
}

// Config holds the freshness thresholds. StaleThreshold < Expiration;
// MaxStaleAge bounds how long a failed refresh may keep extending an entry.
type Config struct {
	StaleThreshold time.Duration
	Expiration     time.Duration
	MaxStaleAge    time.Duration
}

type entry struct {
	value     any
	cachedAt  time.Time
	expiresAt time.Time
}

// Store is a concurrency-safe cache keyed by deterministic operation keys.
// Replacement is atomic; an entry is never partially written. Lapsed
// entries are retained so the fallback path has something to serve.
type Store struct {
	cfg    Config
	clock  clock.Clock
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]entry

	refreshes singleflight.Group
}

// NewStore creates a cache store.
func NewStore(cfg Config, clk clock.Clock, logger *slog.Logger) *Store {
	return &Store{
		cfg:     cfg,
		clock:   clk,
		logger:  logger.With("component", "cache"),
		entries: make(map[string]entry),
	}
}

// GetOrFetch returns the cached value for key or produces one via fetch.
//
//   - Fresh hit: returned immediately, fetch never invoked.
//   - Stale hit (entry within its expiry window): returned immediately
//     tagged Stale, one coalesced background refresh scheduled.
//   - Lapsed entry: fetch runs synchronously; its failure serves the
//     retained entry tagged Fallback.
//   - Miss: fetch runs synchronously; its failure returns a NoCacheError
//     wrapping the classified cause.
func GetOrFetch[T any](ctx context.Context, s *Store, key string, fetch func(ctx context.Context) (T, error)) (T, Freshness, error) {
	now := s.clock.Now()

	ent, ok := s.lookup(key)
	if !ok {
		var zero T
		v, err := fetch(ctx)
		if err != nil {
			return zero, Fresh, &NoCacheError{Err: err}
		}
		s.put(key, v)
		return v, Fresh, nil
	}

	age := now.Sub(ent.cachedAt)
	if age < s.cfg.StaleThreshold {
		return ent.value.(T), Fresh, nil
	}

	if now.Before(ent.expiresAt) {
		s.refreshAsync(key, func(ctx context.Context) (any, error) {
			return fetch(ctx)
		})
		return ent.value.(T), Stale, nil
	}

	// Entry lapsed: re-fetch synchronously, fall back to the old value
	// when the upstream is unavailable.
	v, err := fetch(ctx)
	if err != nil {
		s.logger.Warn("serving fallback cache entry",
			"key", key,
			"age", age.String(),
			"error", err,
		)
		return ent.value.(T), Fallback, nil
	}
	s.put(key, v)
	return v, Fresh, nil
}

func (s *Store) lookup(key string) (entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ent, ok := s.entries[key]
	return ent, ok
}

func (s *Store) put(key string, value any) {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, cachedAt: now, expiresAt: now.Add(s.cfg.Expiration)}
}

// refreshAsync schedules a detached refresh. Concurrent stale reads of the
// same key coalesce onto a single in-flight fetch.
func (s *Store) refreshAsync(key string, fetch func(ctx context.Context) (any, error)) {
	go func() {
		_, _, _ = s.refreshes.Do(key, func() (any, error) {
			v, err := fetch(context.Background())
			if err != nil {
				s.extendAfterFailedRefresh(key, err)
				return nil, err
			}
			s.put(key, v)
			s.logger.Debug("cache entry refreshed", "key", key)
			return nil, nil
		})
	}()
}

// extendAfterFailedRefresh keeps serving the existing entry while its age
// is tolerable, by granting it a new expiry window. Beyond MaxStaleAge the
// entry lapses and only the explicit fallback path may serve it.
func (s *Store) extendAfterFailedRefresh(key string, cause error) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok {
		return
	}

	age := now.Sub(ent.cachedAt)
	if age < s.cfg.MaxStaleAge {
		ent.expiresAt = now.Add(s.cfg.Expiration)
		s.entries[key] = ent
		s.logger.Warn("background refresh failed, extending cache entry",
			"key", key,
			"age", age.String(),
			"error", cause,
		)
		return
	}

	s.logger.Error("background refresh failed and entry exceeds max stale age",
		"key", key,
		"age", age.String(),
		"error", cause,
	)
}

// Len reports the number of entries, for operational surfaces.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
