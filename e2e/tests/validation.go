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
		Name:        "validation",
		Description: "Bad customer ids and unknown customers are rejected cleanly",
		Run:         runValidationTest,
	})
}

func runValidationTest(ctx context.Context, cfg *runner.Config) error {
	c := &client.Config{BaseURL: cfg.BaseURL}

	// Non-numeric customer id
	resp, err := client.GetTransactionsRaw(ctx, c, "not-a-number")
	if err != nil {
		return fmt.Errorf("failed on malformed id request: %w", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("malformed id: expected status 400, got %d", resp.StatusCode)
	}
	if resp.Envelope.ErrorCode != "VALIDATION_ERROR" {
		return fmt.Errorf("malformed id: expected VALIDATION_ERROR, got %q", resp.Envelope.ErrorCode)
	}

	// Malformed date
	resp, err = client.GetTransactions(ctx, c, cfg.CustomerID, "01-08-2025", "")
	if err != nil {
		return fmt.Errorf("failed on malformed date request: %w", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("malformed date: expected status 400, got %d", resp.StatusCode)
	}

	// Unknown customer
	resp, err = client.GetTransactions(ctx, c, cfg.MissingCustomerID, "", "")
	if err != nil {
		return fmt.Errorf("failed on unknown customer request: %w", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("unknown customer: expected status 404, got %d", resp.StatusCode)
	}
	if resp.Envelope.Success {
		return fmt.Errorf("unknown customer: expected success=false")
	}

	return nil
}
