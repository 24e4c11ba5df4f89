// Package transactionapi is the gateway to the transaction ledger service.
// Cache keys encode the full query shape so that distinct pages and date
// windows never collide; absent dates are encoded as the literal "null".
package transactionapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/cache"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/client/apiclient"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/resilience"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/banking"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/result"
)

// Upstream is the id this client reports to the resilience executor.
const Upstream = "TransactionApi"

const dateLayout = "2006-01-02"

// Client calls the transaction service.
type Client struct {
	api    *apiclient.Client
	cache  *cache.Store
	logger *slog.Logger
}

// New creates a transaction service client.
func New(baseURL string, exec *resilience.Executor, store *cache.Store, logger *slog.Logger) *Client {
	return &Client{
		api:    apiclient.New(Upstream, baseURL, exec, logger),
		cache:  store,
		logger: logger.With("client", Upstream),
	}
}

// GetTransactions returns one page of an account's transactions, optionally
// bounded by an inclusive date window.
func (c *Client) GetTransactions(ctx context.Context, accountID int64, from, to *time.Time, page, pageSize int) result.Result[banking.TransactionPage] {
	key := CacheKey(accountID, from, to, page, pageSize)
	path := c.path(accountID, from, to, page, pageSize)

	v, fr, err := cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (banking.TransactionPage, error) {
		return apiclient.GetJSON[banking.TransactionPage](ctx, c.api, path)
	})
	if err != nil {
		c.logger.Error("fetching transactions failed", "account_id", accountID, "error", err)
		return apiclient.FailResult[banking.TransactionPage](err)
	}
	return apiclient.ResultFor(v, fr)
}

// CacheKey builds the deterministic cache key for a transaction query.
func CacheKey(accountID int64, from, to *time.Time, page, pageSize int) string {
	return fmt.Sprintf("transactions_%d_%s_%s_%d_%d", accountID, dateString(from), dateString(to), page, pageSize)
}

func dateString(d *time.Time) string {
	if d == nil {
		return "null"
	}
	return d.Format(dateLayout)
}

func (c *Client) path(accountID int64, from, to *time.Time, page, pageSize int) string {
	q := url.Values{}
	q.Set("accountId", strconv.FormatInt(accountID, 10))
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	if from != nil {
		q.Set("fromDate", from.Format(dateLayout))
	}
	if to != nil {
		q.Set("toDate", to.Format(dateLayout))
	}
	return "/api/transactions?" + q.Encode()
}
