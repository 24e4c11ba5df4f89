// Package aggregationapi exposes the customer aggregation operations over
// HTTP: the cross-account transaction view, the spending summary, and
// statement generation.
package aggregationapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Config holds configuration for the aggregation HTTP service.
type Config struct {
	Port int

	// Health feeds the /health endpoint. Optional.
	Health HealthProbes
}

// RunningService represents a started aggregation HTTP service.
type RunningService struct {
	// Shutdown stops the HTTP server gracefully.
	Shutdown func(ctx context.Context) error
}

// Start starts the aggregation HTTP server.
func Start(ctx context.Context, cfg Config, aggregator Aggregator, logger *slog.Logger, errorCh chan<- error) (*RunningService, error) {
	logger = logger.With("service", "aggregationapi")

	handler := NewHandler(aggregator, cfg.Health, logger)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting aggregation server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("aggregation server error", "error", err)
			errorCh <- fmt.Errorf("aggregation server failed: %w", err)
		}
	}()

	return &RunningService{
		Shutdown: func(shutdownCtx context.Context) error {
			logger.Info("shutting down aggregation service")
			return server.Shutdown(shutdownCtx)
		},
	}, nil
}
