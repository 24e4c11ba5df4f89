package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/aggregation"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/cache"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/client/accountapi"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/client/customerapi"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/client/documentapi"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/client/fraudengine"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/client/transactionapi"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/outbox"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/resilience"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/services/aggregationapi"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/clock"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/config"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/infra/postgres"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/infra/redpanda"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("starting transactions orchestrator",
		"port", cfg.Port,
		"delivery_mode", cfg.DeliveryMode,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pg, err := postgres.NewClient(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer pg.Close()

	if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Upstream call policy and read-through cache, shared by all clients
	exec := resilience.NewExecutor(resilience.Config{
		Timeout:          cfg.UpstreamTimeout,
		RetryCount:       cfg.RetryCount,
		RetryBase:        cfg.RetryBase,
		FailureThreshold: uint32(cfg.FailureThreshold),
		OpenDuration:     cfg.OpenDuration,
	}, logger)

	realClock := clock.RealClock{}
	store := cache.NewStore(cache.Config{
		StaleThreshold: cfg.CacheStaleThreshold,
		Expiration:     cfg.CacheExpiration,
		MaxStaleAge:    cfg.CacheMaxStaleAge,
	}, realClock, logger)

	// Upstream clients
	customers := customerapi.New(cfg.CustomerAPIURL, exec, store, logger)
	accounts := accountapi.New(cfg.AccountAPIURL, exec, store, logger)
	transactions := transactionapi.New(cfg.TransactionAPIURL, exec, store, logger)
	documents := documentapi.New(cfg.DocumentAPIURL, exec, logger)

	// Event delivery: the outbox drain posts to the fraud engine over
	// HTTP or produces to Redpanda, depending on configuration.
	var sender outbox.EventSender
	if cfg.DeliveryMode == config.DeliveryKafka {
		producer, err := redpanda.NewProducer(strings.Split(cfg.RedpandaBrokers, ","), cfg.RedpandaTopic, logger)
		if err != nil {
			slog.Error("failed to create Redpanda producer", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		sender = producer
	} else {
		sender = fraudengine.New(cfg.FraudEngineURL, exec, logger)
	}

	// Outbox: aggregation stages events, the processor drains them
	outboxStore := postgres.NewOutboxStore(pg.Pool(), logger)
	publisher := outbox.NewPublisher(outboxStore, realClock, logger)
	processor := outbox.NewProcessor(outboxStore, sender, realClock, outbox.ProcessorConfig{
		PollInterval:     cfg.OutboxPollInterval,
		BatchSize:        cfg.OutboxBatchSize,
		MaxRetryAttempts: cfg.OutboxMaxAttempts,
		Parallel:         cfg.OutboxParallel,
		MaxParallel:      cfg.OutboxMaxParallel,
	}, logger)

	processorDone := make(chan struct{})
	go func() {
		defer close(processorDone)
		if err := processor.Run(ctx); err != nil {
			slog.Error("outbox processor stopped", "error", err)
		}
	}()

	// Aggregation service and HTTP surface
	aggregator := aggregation.NewService(customers, accounts, transactions, documents, publisher, logger)

	upstreams := []string{
		customerapi.Upstream,
		accountapi.Upstream,
		transactionapi.Upstream,
		documentapi.Upstream,
		fraudengine.Upstream,
	}

	errorCh := make(chan error, 1)
	apiSvc, err := aggregationapi.Start(ctx, aggregationapi.Config{
		Port: cfg.Port,
		Health: aggregationapi.HealthProbes{
			Database: pg.Health,
			Breakers: func() map[string]string {
				states := make(map[string]string, len(upstreams))
				for _, u := range upstreams {
					states[u] = exec.State(u).String()
				}
				return states
			},
			CacheEntries: store.Len,
		},
	}, aggregator, logger, errorCh)
	if err != nil {
		slog.Error("failed to start aggregation service", "error", err)
		os.Exit(1)
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("received shutdown signal", "signal", sig)
	case err := <-errorCh:
		slog.Error("service error", "error", err)
	case <-ctx.Done():
		slog.Info("context cancelled")
	}

	// Graceful shutdown (reverse order)
	slog.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := apiSvc.Shutdown(shutdownCtx); err != nil {
		slog.Error("aggregation service shutdown error", "error", err)
	}

	cancel()
	select {
	case <-processorDone:
	case <-shutdownCtx.Done():
		slog.Warn("outbox processor did not stop in time")
	}

	slog.Info("transactions orchestrator stopped")
}

// newLogger creates a structured logger based on configuration.
func newLogger(level, format string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
