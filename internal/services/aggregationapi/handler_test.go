package aggregationapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/aggregation"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/result"
)

func newTestHandler(mock *mockAggregator) *Handler {
	return NewHandler(mock, HealthProbes{}, slog.Default())
}

func serve(h *Handler, method, target string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHandleTransactions_Success(t *testing.T) {
	mock := &mockAggregator{
		GetCustomerTransactionsFn: func(ctx context.Context, customerID int64, dateRange aggregation.DateRange) result.Result[aggregation.AggregatedTransactions] {
			assert.Equal(t, int64(1001), customerID)
			assert.True(t, dateRange.IsZero())
			return result.Ok(aggregation.AggregatedTransactions{
				CustomerID:   customerID,
				CustomerName: "Amara Okafor",
			})
		},
	}

	w := serve(newTestHandler(mock), http.MethodGet, "/api/v1/customers/1001/transactions")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp result.Result[aggregation.AggregatedTransactions]
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Amara Okafor", resp.Data.CustomerName)
}

func TestHandleTransactions_DateRange(t *testing.T) {
	mock := &mockAggregator{
		GetCustomerTransactionsFn: func(ctx context.Context, customerID int64, dateRange aggregation.DateRange) result.Result[aggregation.AggregatedTransactions] {
			require.NotNil(t, dateRange.From)
			require.NotNil(t, dateRange.To)
			assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), *dateRange.From)
			assert.Equal(t, time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC), *dateRange.To)
			return result.Ok(aggregation.AggregatedTransactions{CustomerID: customerID})
		},
	}

	w := serve(newTestHandler(mock), http.MethodGet, "/api/v1/customers/1001/transactions?from=2025-08-01&to=2025-08-31")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleTransactions_InvalidCustomerID(t *testing.T) {
	mock := &mockAggregator{
		GetCustomerTransactionsFn: func(ctx context.Context, customerID int64, dateRange aggregation.DateRange) result.Result[aggregation.AggregatedTransactions] {
			t.Fatal("aggregator should not be called for an invalid customer id")
			return result.Ok(aggregation.AggregatedTransactions{})
		},
	}

	for _, id := range []string{"abc", "0", "-5"} {
		w := serve(newTestHandler(mock), http.MethodGet, "/api/v1/customers/"+id+"/transactions")

		assert.Equal(t, http.StatusBadRequest, w.Code, "id %q", id)

		var resp result.Result[struct{}]
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, result.CodeValidation, resp.ErrorCode)
	}
}

func TestHandleTransactions_InvalidDate(t *testing.T) {
	mock := &mockAggregator{}

	w := serve(newTestHandler(mock), http.MethodGet, "/api/v1/customers/1001/transactions?from=08-01-2025")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp result.Result[struct{}]
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, result.CodeValidation, resp.ErrorCode)
}

func TestHandleTransactions_InvertedRange(t *testing.T) {
	mock := &mockAggregator{}

	w := serve(newTestHandler(mock), http.MethodGet, "/api/v1/customers/1001/transactions?from=2025-08-31&to=2025-08-01")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleTransactions_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		code       string
		wantStatus int
	}{
		{result.CodeNotFound, http.StatusNotFound},
		{result.CodeAPIUnavailable, http.StatusServiceUnavailable},
		{result.CodeNoCacheAvailable, http.StatusServiceUnavailable},
		{result.CodeDocumentUnavailable, http.StatusServiceUnavailable},
		{result.CodeAPITimeout, http.StatusGatewayTimeout},
		{result.CodeDocumentTimeout, http.StatusGatewayTimeout},
		{result.CodeAPIError, http.StatusBadGateway},
		{result.CodeEmptyResponse, http.StatusBadGateway},
		{result.CodeValidation, http.StatusBadRequest},
		{result.CodeUnexpected, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			mock := &mockAggregator{
				GetCustomerTransactionsFn: func(ctx context.Context, customerID int64, dateRange aggregation.DateRange) result.Result[aggregation.AggregatedTransactions] {
					return result.Fail[aggregation.AggregatedTransactions]("upstream failed", tt.code)
				},
			}

			w := serve(newTestHandler(mock), http.MethodGet, "/api/v1/customers/1001/transactions")

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp result.Result[aggregation.AggregatedTransactions]
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.ErrorCode)
		})
	}
}

func TestHandleTransactions_WarningPreserved(t *testing.T) {
	mock := &mockAggregator{
		GetCustomerTransactionsFn: func(ctx context.Context, customerID int64, dateRange aggregation.DateRange) result.Result[aggregation.AggregatedTransactions] {
			return result.OkWithWarning(
				aggregation.AggregatedTransactions{CustomerID: customerID},
				"serving stale cached data",
				result.WarnStaleRefreshing,
			)
		},
	}

	w := serve(newTestHandler(mock), http.MethodGet, "/api/v1/customers/1001/transactions")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp result.Result[aggregation.AggregatedTransactions]
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, result.WarnStaleRefreshing, resp.WarningCode)
}

func TestHandleSummary_Success(t *testing.T) {
	mock := &mockAggregator{
		GetTransactionSummaryFn: func(ctx context.Context, customerID int64, dateRange aggregation.DateRange) result.Result[aggregation.TransactionSummary] {
			return result.Ok(aggregation.TransactionSummary{CustomerID: customerID, CustomerName: "Amara Okafor"})
		},
	}

	w := serve(newTestHandler(mock), http.MethodGet, "/api/v1/customers/1001/summary")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp result.Result[aggregation.TransactionSummary]
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, int64(1001), resp.Data.CustomerID)
}

func TestHandleStatement_Success(t *testing.T) {
	mock := &mockAggregator{
		GenerateStatementFn: func(ctx context.Context, customerID int64, dateRange aggregation.DateRange) result.Result[aggregation.Statement] {
			return result.Ok(aggregation.Statement{FileName: "statement-1001.pdf"})
		},
	}

	w := serve(newTestHandler(mock), http.MethodPost, "/api/v1/customers/1001/statement")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp result.Result[aggregation.Statement]
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "statement-1001.pdf", resp.Data.FileName)
}

func TestRouting_MethodNotAllowed(t *testing.T) {
	mock := &mockAggregator{}
	h := newTestHandler(mock)

	assert.Equal(t, http.StatusMethodNotAllowed, serve(h, http.MethodPost, "/api/v1/customers/1001/transactions").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(h, http.MethodGet, "/api/v1/customers/1001/statement").Code)
}

func TestRouting_UnknownPaths(t *testing.T) {
	mock := &mockAggregator{}
	h := newTestHandler(mock)

	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/api/v1/customers/1001/balances").Code)
	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/api/v1/customers/1001").Code)
	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/api/v1/customers/1001/transactions/extra").Code)
}

func TestHandleHealth(t *testing.T) {
	mock := &mockAggregator{}

	w := serve(newTestHandler(mock), http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestHandleHealth_Degraded(t *testing.T) {
	probes := HealthProbes{
		Database: func(ctx context.Context) error {
			return errors.New("database unreachable")
		},
	}
	h := NewHandler(&mockAggregator{}, probes, slog.Default())

	w := serve(h, http.MethodGet, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "degraded", resp["status"])
	assert.Equal(t, "database unreachable", resp["error"])
}

func TestHandleHealth_ReportsBreakersAndCacheSize(t *testing.T) {
	probes := HealthProbes{
		Database: func(ctx context.Context) error { return nil },
		Breakers: func() map[string]string {
			return map[string]string{
				"CustomerApi":    "closed",
				"TransactionApi": "open",
			}
		},
		CacheEntries: func() int { return 42 },
	}
	h := NewHandler(&mockAggregator{}, probes, slog.Default())

	w := serve(h, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, float64(42), resp["cache_entries"])

	breakers, ok := resp["breakers"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "closed", breakers["CustomerApi"])
	assert.Equal(t, "open", breakers["TransactionApi"])
}
