// Package customerapi is the gateway to the customer directory service.
// Reads are cached with stale-while-revalidate semantics under
// deterministic per-customer keys.
package customerapi

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
const Upstream = "CustomerApi"

// Client calls the customer service.
type Client struct {
	api    *apiclient.Client
	cache  *cache.Store
	logger *slog.Logger
}

// New creates a customer service client.
func New(baseURL string, exec *resilience.Executor, store *cache.Store, logger *slog.Logger) *Client {
	return &Client{
		api:    apiclient.New(Upstream, baseURL, exec, logger),
		cache:  store,
		logger: logger.With("client", Upstream),
	}
}

type accountsResponse struct {
	CustomerID int64             `json:"customer_id"`
	Accounts   []banking.Account `json:"accounts"`
}

// GetCustomer returns the customer's profile.
func (c *Client) GetCustomer(ctx context.Context, customerID int64) result.Result[banking.Customer] {
	key := fmt.Sprintf("customer_%d", customerID)

	v, fr, err := cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (banking.Customer, error) {
		return apiclient.GetJSON[banking.Customer](ctx, c.api, fmt.Sprintf("/api/customers/%d", customerID))
	})
	if err != nil {
		c.logger.Error("fetching customer failed", "customer_id", customerID, "error", err)
		return apiclient.FailResult[banking.Customer](err)
	}
	return apiclient.ResultFor(v, fr)
}

// GetCustomerAccounts returns the customer's accounts.
func (c *Client) GetCustomerAccounts(ctx context.Context, customerID int64) result.Result[[]banking.Account] {
	key := fmt.Sprintf("customer_accounts_%d", customerID)

	v, fr, err := cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (accountsResponse, error) {
		return apiclient.GetJSON[accountsResponse](ctx, c.api, fmt.Sprintf("/api/customers/%d/accounts", customerID))
	})
	if err != nil {
		c.logger.Error("fetching customer accounts failed", "customer_id", customerID, "error", err)
		return apiclient.FailResult[[]banking.Account](err)
	}
	return apiclient.ResultFor(v.Accounts, fr)
}
