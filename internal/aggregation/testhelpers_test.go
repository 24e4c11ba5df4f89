package aggregation

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/client/documentapi"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/banking"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/events"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/result"
)

// mockCustomerGateway implements CustomerGateway for testing.
type mockCustomerGateway struct {
	GetCustomerFn         func(ctx context.Context, customerID int64) result.Result[banking.Customer]
	GetCustomerAccountsFn func(ctx context.Context, customerID int64) result.Result[[]banking.Account]
}

func (m *mockCustomerGateway) GetCustomer(ctx context.Context, customerID int64) result.Result[banking.Customer] {
	return m.GetCustomerFn(ctx, customerID)
}

func (m *mockCustomerGateway) GetCustomerAccounts(ctx context.Context, customerID int64) result.Result[[]banking.Account] {
	return m.GetCustomerAccountsFn(ctx, customerID)
}

// mockAccountGateway implements AccountGateway for testing.
type mockAccountGateway struct {
	GetAccountBalanceFn func(ctx context.Context, accountID int64) result.Result[banking.Balance]
}

func (m *mockAccountGateway) GetAccountBalance(ctx context.Context, accountID int64) result.Result[banking.Balance] {
	return m.GetAccountBalanceFn(ctx, accountID)
}

// mockTransactionGateway implements TransactionGateway for testing.
type mockTransactionGateway struct {
	GetTransactionsFn func(ctx context.Context, accountID int64, from, to *time.Time, page, pageSize int) result.Result[banking.TransactionPage]
}

func (m *mockTransactionGateway) GetTransactions(ctx context.Context, accountID int64, from, to *time.Time, page, pageSize int) result.Result[banking.TransactionPage] {
	return m.GetTransactionsFn(ctx, accountID, from, to, page, pageSize)
}

// mockDocumentGateway implements DocumentGateway for testing.
type mockDocumentGateway struct {
	GenerateDocumentFn func(ctx context.Context, req documentapi.GenerateRequest) result.Result[documentapi.GenerateResponse]
}

func (m *mockDocumentGateway) GenerateDocument(ctx context.Context, req documentapi.GenerateRequest) result.Result[documentapi.GenerateResponse] {
	return m.GenerateDocumentFn(ctx, req)
}

// mockPublisher implements EventPublisher for testing.
type mockPublisher struct {
	PublishFn func(ctx context.Context, evts []events.TransactionEvent, customerID int64, correlationID uuid.UUID) error
}

func (m *mockPublisher) Publish(ctx context.Context, evts []events.TransactionEvent, customerID int64, correlationID uuid.UUID) error {
	return m.PublishFn(ctx, evts, customerID, correlationID)
}
