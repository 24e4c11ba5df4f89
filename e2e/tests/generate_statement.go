package tests

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/e2e/client"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/e2e/runner"
)

func init() {
	runner.Register(&runner.Test{
		Name:        "generate-statement",
		Description: "Generate a downloadable statement for a seeded customer",
		Run:         runGenerateStatementTest,
	})
}

func runGenerateStatementTest(ctx context.Context, cfg *runner.Config) error {
	c := &client.Config{BaseURL: cfg.BaseURL}

	resp, err := client.GenerateStatement(ctx, c, cfg.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to generate statement: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expected status 200, got %d (%s: %s)",
			resp.StatusCode, resp.Envelope.ErrorCode, resp.Envelope.ErrorMessage)
	}

	var statement client.Statement
	if err := client.DecodeData(resp.Envelope, &statement); err != nil {
		return fmt.Errorf("failed to decode statement: %w", err)
	}

	if statement.StatementID == "" {
		return fmt.Errorf("expected non-empty statement_id")
	}
	if statement.FileName == "" {
		return fmt.Errorf("expected non-empty file_name")
	}
	if !strings.HasPrefix(statement.DownloadURL, "http") {
		return fmt.Errorf("expected absolute download_url, got %q", statement.DownloadURL)
	}
	if statement.MaxDownloads <= 0 {
		return fmt.Errorf("expected positive max_downloads, got %d", statement.MaxDownloads)
	}

	return nil
}
