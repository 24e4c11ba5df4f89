// Package accountapi is the gateway to the account balance service.
package accountapi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/cache"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/client/apiclient"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/resilience"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/banking"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/result"
)

// Upstream is the id this client reports to the resilience executor.
const Upstream = "AccountApi"

// Client calls the account service.
type Client struct {
	api    *apiclient.Client
	cache  *cache.Store
	logger *slog.Logger
}

// New creates an account service client.
func New(baseURL string, exec *resilience.Executor, store *cache.Store, logger *slog.Logger) *Client {
	return &Client{
		api:    apiclient.New(Upstream, baseURL, exec, logger),
		cache:  store,
		logger: logger.With("client", Upstream),
	}
}

// GetAccountBalance returns the current balance of an account.
func (c *Client) GetAccountBalance(ctx context.Context, accountID int64) result.Result[banking.Balance] {
	key := fmt.Sprintf("account_balance_%d", accountID)

	v, fr, err := cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (banking.Balance, error) {
		return apiclient.GetJSON[banking.Balance](ctx, c.api, fmt.Sprintf("/api/accounts/%d/balance", accountID))
	})
	if err != nil {
		c.logger.Error("fetching account balance failed", "account_id", accountID, "error", err)
		return apiclient.FailResult[banking.Balance](err)
	}
	return apiclient.ResultFor(v, fr)
}
