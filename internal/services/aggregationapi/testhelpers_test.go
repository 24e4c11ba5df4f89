package aggregationapi

import (
	"context"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/aggregation"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/result"
)

// mockAggregator implements Aggregator for testing.
type mockAggregator struct {
	GetCustomerTransactionsFn func(ctx context.Context, customerID int64, dateRange aggregation.DateRange) result.Result[aggregation.AggregatedTransactions]
	GetTransactionSummaryFn   func(ctx context.Context, customerID int64, dateRange aggregation.DateRange) result.Result[aggregation.TransactionSummary]
	GenerateStatementFn       func(ctx context.Context, customerID int64, dateRange aggregation.DateRange) result.Result[aggregation.Statement]
}

func (m *mockAggregator) GetCustomerTransactions(ctx context.Context, customerID int64, dateRange aggregation.DateRange) result.Result[aggregation.AggregatedTransactions] {
	return m.GetCustomerTransactionsFn(ctx, customerID, dateRange)
}

func (m *mockAggregator) GetTransactionSummary(ctx context.Context, customerID int64, dateRange aggregation.DateRange) result.Result[aggregation.TransactionSummary] {
	return m.GetTransactionSummaryFn(ctx, customerID, dateRange)
}

func (m *mockAggregator) GenerateStatement(ctx context.Context, customerID int64, dateRange aggregation.DateRange) result.Result[aggregation.Statement] {
	return m.GenerateStatementFn(ctx, customerID, dateRange)
}
