package tests

import (
	"context"
	"fmt"
	"net/http"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/e2e/client"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/e2e/runner"
)

func init() {
	runner.Register(&runner.Test{
		Name:        "aggregate-transactions",
		Description: "Aggregate a seeded customer's transactions across accounts",
		Run:         runAggregateTransactionsTest,
	})
}

func runAggregateTransactionsTest(ctx context.Context, cfg *runner.Config) error {
	c := &client.Config{BaseURL: cfg.BaseURL}

	resp, err := client.GetTransactions(ctx, c, cfg.CustomerID, "", "")
	if err != nil {
		return fmt.Errorf("failed to get transactions: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expected status 200, got %d (%s: %s)",
			resp.StatusCode, resp.Envelope.ErrorCode, resp.Envelope.ErrorMessage)
	}
	if !resp.Envelope.Success {
		return fmt.Errorf("expected success=true, got error %s", resp.Envelope.ErrorCode)
	}

	var aggregated client.AggregatedTransactions
	if err := client.DecodeData(resp.Envelope, &aggregated); err != nil {
		return fmt.Errorf("failed to decode aggregation: %w", err)
	}

	if aggregated.CustomerID != cfg.CustomerID {
		return fmt.Errorf("expected customer_id %d, got %d", cfg.CustomerID, aggregated.CustomerID)
	}
	if aggregated.CustomerName == "" {
		return fmt.Errorf("expected non-empty customer_name")
	}
	if len(aggregated.Accounts) == 0 {
		return fmt.Errorf("expected at least one account for seeded customer %d", cfg.CustomerID)
	}

	// total_transactions must match the per-account lists
	total := 0
	for _, account := range aggregated.Accounts {
		if account.AccountID == 0 {
			return fmt.Errorf("account with zero account_id in response")
		}
		total += len(account.Transactions)
	}
	if total != aggregated.TotalTransactions {
		return fmt.Errorf("total_transactions %d does not match %d listed transactions",
			aggregated.TotalTransactions, total)
	}

	// A repeat read must be served consistently (warm cache path)
	resp2, err := client.GetTransactions(ctx, c, cfg.CustomerID, "", "")
	if err != nil {
		return fmt.Errorf("failed on repeat read: %w", err)
	}
	if resp2.StatusCode != http.StatusOK {
		return fmt.Errorf("repeat read: expected status 200, got %d", resp2.StatusCode)
	}

	var repeat client.AggregatedTransactions
	if err := client.DecodeData(resp2.Envelope, &repeat); err != nil {
		return fmt.Errorf("failed to decode repeat aggregation: %w", err)
	}
	if repeat.TotalTransactions != aggregated.TotalTransactions {
		return fmt.Errorf("repeat read returned %d transactions, first read %d",
			repeat.TotalTransactions, aggregated.TotalTransactions)
	}

	return nil
}
