package tests

import (
	"context"
	"fmt"
	"math/big"
	"net/http"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/e2e/client"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/e2e/runner"
)

func init() {
	runner.Register(&runner.Test{
		Name:        "transaction-summary",
		Description: "Summary totals and categories are internally consistent",
		Run:         runTransactionSummaryTest,
	})
}

func runTransactionSummaryTest(ctx context.Context, cfg *runner.Config) error {
	c := &client.Config{BaseURL: cfg.BaseURL}

	resp, err := client.GetSummary(ctx, c, cfg.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to get summary: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expected status 200, got %d (%s: %s)",
			resp.StatusCode, resp.Envelope.ErrorCode, resp.Envelope.ErrorMessage)
	}

	var summary client.TransactionSummary
	if err := client.DecodeData(resp.Envelope, &summary); err != nil {
		return fmt.Errorf("failed to decode summary: %w", err)
	}

	debits, err := rat(summary.TotalDebits)
	if err != nil {
		return fmt.Errorf("bad total_debits: %w", err)
	}
	credits, err := rat(summary.TotalCredits)
	if err != nil {
		return fmt.Errorf("bad total_credits: %w", err)
	}
	net, err := rat(summary.NetAmount)
	if err != nil {
		return fmt.Errorf("bad net_amount: %w", err)
	}

	// Totals are magnitudes; net is credits minus debits
	if debits.Sign() < 0 {
		return fmt.Errorf("total_debits is negative: %s", summary.TotalDebits)
	}
	if credits.Sign() < 0 {
		return fmt.Errorf("total_credits is negative: %s", summary.TotalCredits)
	}
	want := new(big.Rat).Sub(credits, debits)
	if net.Cmp(want) != 0 {
		return fmt.Errorf("net_amount %s != credits %s - debits %s",
			summary.NetAmount, summary.TotalCredits, summary.TotalDebits)
	}

	// Category counts must sum to the transaction total on the
	// transactions endpoint
	txResp, err := client.GetTransactions(ctx, c, cfg.CustomerID, "", "")
	if err != nil {
		return fmt.Errorf("failed to get transactions for cross-check: %w", err)
	}
	var aggregated client.AggregatedTransactions
	if err := client.DecodeData(txResp.Envelope, &aggregated); err != nil {
		return fmt.Errorf("failed to decode aggregation: %w", err)
	}

	categorized := 0
	for _, category := range summary.Categories {
		if category.Category == "" {
			return fmt.Errorf("category with empty name in summary")
		}
		categorized += category.TransactionCount
	}
	if categorized != aggregated.TotalTransactions {
		return fmt.Errorf("categories cover %d transactions, aggregation has %d",
			categorized, aggregated.TotalTransactions)
	}

	return nil
}

func rat(n fmt.Stringer) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(n.String())
	if !ok {
		return nil, fmt.Errorf("not a decimal number: %q", n.String())
	}
	return r, nil
}
