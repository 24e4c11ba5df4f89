package tests

import (
	"context"
	"fmt"
	"time"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/e2e/client"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/e2e/runner"
)

func init() {
	runner.Register(&runner.Test{
		Name:        "health",
		Description: "Service responds on its health endpoint",
		Run:         runHealthTest,
	})
}

func runHealthTest(ctx context.Context, cfg *runner.Config) error {
	c := &client.Config{BaseURL: cfg.BaseURL}

	if err := client.WaitForHealthy(ctx, c, 10*time.Second); err != nil {
		return fmt.Errorf("service not reachable: %w", err)
	}

	return nil
}
