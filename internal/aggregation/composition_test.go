package aggregation

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/cache"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/client/accountapi"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/client/customerapi"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/client/transactionapi"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/resilience"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/banking"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/clock"
)

// bankUpstream serves the customer, account, and transaction APIs from one
// in-process endpoint. Transaction reads for failingAccountID always return
// 500 and are counted; everything else succeeds.
func bankUpstream(failingAccountID string, failingCalls *atomic.Int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeBody := func(v any) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(v)
		}

		switch {
		case r.URL.Path == "/api/customers/1001":
			writeBody(banking.Customer{CustomerID: 1001, FirstName: "Amara", LastName: "Okafor"})

		case r.URL.Path == "/api/customers/1001/accounts":
			writeBody(map[string]any{
				"customer_id": 1001,
				"accounts": []banking.Account{
					{AccountID: 10000, AccountType: "Cheque", AccountNumber: "620010000", Currency: "ZAR"},
					{AccountID: 10001, AccountType: "Savings", AccountNumber: "620010001", Currency: "ZAR"},
				},
			})

		case strings.HasPrefix(r.URL.Path, "/api/accounts/") && strings.HasSuffix(r.URL.Path, "/balance"):
			raw := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/accounts/"), "/balance")
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				http.NotFound(w, r)
				return
			}
			writeBody(banking.Balance{
				AccountID:        id,
				CurrentBalance:   decimal.NewFromInt(5000),
				AvailableBalance: decimal.NewFromInt(4800),
				Currency:         "ZAR",
			})

		case r.URL.Path == "/api/transactions":
			if r.URL.Query().Get("accountId") == failingAccountID {
				failingCalls.Add(1)
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			writeBody(banking.TransactionPage{
				Transactions: testTransactions(10000),
				Page:         1,
				PageSize:     50,
				TotalCount:   3,
			})

		default:
			http.NotFound(w, r)
		}
	}))
}

// Composes the real resilience executor, cache store, and HTTP gateway
// clients against an in-process upstream where one account's transaction
// reads fail persistently. The aggregation succeeds with the healthy
// account only, and the failing read is attempted exactly once plus the
// configured retries.
func TestGetCustomerTransactionsFullStackToleratesAccountOutage(t *testing.T) {
	var failingCalls atomic.Int32
	upstream := bankUpstream("10001", &failingCalls)
	defer upstream.Close()

	logger := slog.Default()
	exec := resilience.NewExecutor(resilience.Config{
		Timeout:          time.Second,
		RetryCount:       2,
		RetryBase:        time.Millisecond,
		FailureThreshold: 3,
		OpenDuration:     30 * time.Second,
	}, logger)
	store := cache.NewStore(cache.Config{
		StaleThreshold: time.Minute,
		Expiration:     5 * time.Minute,
		MaxStaleAge:    time.Hour,
	}, clock.RealClock{}, logger)

	f := newFixture()
	svc := NewService(
		customerapi.New(upstream.URL, exec, store, logger),
		accountapi.New(upstream.URL, exec, store, logger),
		transactionapi.New(upstream.URL, exec, store, logger),
		f.documents,
		f.publisher,
		logger,
	)

	res := svc.GetCustomerTransactions(context.Background(), 1001, DateRange{})

	require.True(t, res.Success)
	require.Len(t, res.Data.Accounts, 1)
	assert.Equal(t, int64(10000), res.Data.Accounts[0].AccountID)
	assert.Equal(t, 3, res.Data.TotalTransactions)

	assert.Equal(t, int32(3), failingCalls.Load(), "one initial attempt plus two retries")

	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.published, 1)
	assert.Len(t, f.published[0], 3)
}
