// Package aggregation orchestrates the per-customer fan-out: customer
// profile, accounts, transactions, and balances are combined into one
// view, derived events are staged for fraud analysis, and the roll-up and
// statement operations build on the same aggregation.
package aggregation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/client/documentapi"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/banking"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/events"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/result"
)

const (
	defaultPage     = 1
	defaultPageSize = 50

	statementTokenExpiryMinutes = 60
	statementMaxDownloads       = 5
)

// CustomerGateway reads customer profiles and account lists.
type CustomerGateway interface {
	GetCustomer(ctx context.Context, customerID int64) result.Result[banking.Customer]
	GetCustomerAccounts(ctx context.Context, customerID int64) result.Result[[]banking.Account]
}

// AccountGateway reads account balances.
type AccountGateway interface {
	GetAccountBalance(ctx context.Context, accountID int64) result.Result[banking.Balance]
}

// TransactionGateway reads paged account transactions.
type TransactionGateway interface {
	GetTransactions(ctx context.Context, accountID int64, from, to *time.Time, page, pageSize int) result.Result[banking.TransactionPage]
}

// DocumentGateway renders statements.
type DocumentGateway interface {
	GenerateDocument(ctx context.Context, req documentapi.GenerateRequest) result.Result[documentapi.GenerateResponse]
}

// EventPublisher stages derived events for delivery.
type EventPublisher interface {
	Publish(ctx context.Context, evts []events.TransactionEvent, customerID int64, correlationID uuid.UUID) error
}

// Service aggregates customer financial data across the upstream services.
type Service struct {
	customers    CustomerGateway
	accounts     AccountGateway
	transactions TransactionGateway
	documents    DocumentGateway
	publisher    EventPublisher
	logger       *slog.Logger
}

// NewService creates the aggregation service.
func NewService(
	customers CustomerGateway,
	accounts AccountGateway,
	transactions TransactionGateway,
	documents DocumentGateway,
	publisher EventPublisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		customers:    customers,
		accounts:     accounts,
		transactions: transactions,
		documents:    documents,
		publisher:    publisher,
		logger:       logger.With("component", "aggregation"),
	}
}

// GetCustomerTransactions aggregates a customer's transactions across all
// accounts. The customer profile and account list are required; a single
// account whose transactions or balance cannot be obtained is excluded
// with a warning rather than failing the whole aggregation.
func (s *Service) GetCustomerTransactions(ctx context.Context, customerID int64, dateRange DateRange) result.Result[AggregatedTransactions] {
	correlationID, err := uuid.NewV7()
	if err != nil {
		return result.Fail[AggregatedTransactions](fmt.Sprintf("generating correlation id: %v", err), result.CodeUnexpected)
	}
	logger := s.logger.With("customer_id", customerID, "correlation_id", correlationID)

	customerResult := s.customers.GetCustomer(ctx, customerID)
	if !customerResult.Success {
		return result.FailFrom[AggregatedTransactions](customerResult)
	}

	accountsResult := s.customers.GetCustomerAccounts(ctx, customerID)
	if !accountsResult.Success {
		return result.FailFrom[AggregatedTransactions](accountsResult)
	}

	customer := customerResult.Data
	activities := make([]AccountActivity, 0, len(accountsResult.Data))
	var allTransactions []banking.Transaction

	for _, account := range accountsResult.Data {
		txResult := s.transactions.GetTransactions(ctx, account.AccountID, dateRange.From, dateRange.To, defaultPage, defaultPageSize)
		if !txResult.Success {
			logger.Warn("excluding account, transactions unavailable",
				"account_id", account.AccountID,
				"error_code", txResult.ErrorCode,
				"error", txResult.ErrorMessage,
			)
			continue
		}

		balanceResult := s.accounts.GetAccountBalance(ctx, account.AccountID)
		if !balanceResult.Success {
			logger.Warn("excluding account, balance unavailable",
				"account_id", account.AccountID,
				"error_code", balanceResult.ErrorCode,
				"error", balanceResult.ErrorMessage,
			)
			continue
		}

		transactions := txResult.Data.Transactions
		for i := range transactions {
			if transactions[i].MerchantCategory == "" {
				transactions[i].MerchantCategory = Categorize(transactions[i])
			}
		}

		activities = append(activities, AccountActivity{
			AccountID:        account.AccountID,
			AccountType:      account.AccountType,
			AccountNumber:    account.AccountNumber,
			Currency:         account.Currency,
			CurrentBalance:   balanceResult.Data.CurrentBalance,
			AvailableBalance: balanceResult.Data.AvailableBalance,
			Transactions:     transactions,
		})
		allTransactions = append(allTransactions, transactions...)
	}

	aggregated := AggregatedTransactions{
		CustomerID:        customer.CustomerID,
		CustomerName:      customer.Name(),
		Accounts:          activities,
		TotalTransactions: len(allTransactions),
	}
	if !dateRange.IsZero() {
		aggregated.DateRange = &dateRange
	}

	// Staging is best effort: a delivery backlog must not make reads fail.
	if len(allTransactions) > 0 {
		evts := make([]events.TransactionEvent, 0, len(allTransactions))
		for _, tx := range allTransactions {
			evts = append(evts, events.FromTransaction(tx, customerID))
		}
		if err := s.publisher.Publish(ctx, evts, customerID, correlationID); err != nil {
			logger.Error("staging transaction events failed", "count", len(evts), "error", err)
		}
	}

	logger.Info("aggregation complete",
		"accounts_included", len(activities),
		"accounts_total", len(accountsResult.Data),
		"transactions", len(allTransactions),
	)

	if customerResult.WarningCode != "" {
		return result.OkWithWarning(aggregated, customerResult.WarningMessage, customerResult.WarningCode)
	}
	if accountsResult.WarningCode != "" {
		return result.OkWithWarning(aggregated, accountsResult.WarningMessage, accountsResult.WarningCode)
	}
	return result.Ok(aggregated)
}

// GetTransactionSummary rolls an aggregation up into debit/credit totals
// and per-category summaries, largest magnitude first.
func (s *Service) GetTransactionSummary(ctx context.Context, customerID int64, dateRange DateRange) result.Result[TransactionSummary] {
	aggregatedResult := s.GetCustomerTransactions(ctx, customerID, dateRange)
	if !aggregatedResult.Success {
		return result.FailFrom[TransactionSummary](aggregatedResult)
	}
	aggregated := aggregatedResult.Data

	var all []banking.Transaction
	for _, account := range aggregated.Accounts {
		all = append(all, account.Transactions...)
	}

	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for _, tx := range all {
		if strings.EqualFold(tx.Type, banking.TypeDebit) {
			totalDebits = totalDebits.Add(tx.Amount.Abs())
		} else if strings.EqualFold(tx.Type, banking.TypeCredit) {
			totalCredits = totalCredits.Add(tx.Amount.Abs())
		}
	}

	summary := TransactionSummary{
		CustomerID:   aggregated.CustomerID,
		CustomerName: aggregated.CustomerName,
		TotalDebits:  totalDebits,
		TotalCredits: totalCredits,
		NetAmount:    totalCredits.Sub(totalDebits),
		Categories:   summarizeCategories(all, totalDebits, totalCredits),
		DateRange:    aggregated.DateRange,
	}

	if aggregatedResult.WarningCode != "" {
		return result.OkWithWarning(summary, aggregatedResult.WarningMessage, aggregatedResult.WarningCode)
	}
	return result.Ok(summary)
}

// GenerateStatement renders the aggregation as a downloadable statement
// via the document service.
func (s *Service) GenerateStatement(ctx context.Context, customerID int64, dateRange DateRange) result.Result[Statement] {
	aggregatedResult := s.GetCustomerTransactions(ctx, customerID, dateRange)
	if !aggregatedResult.Success {
		return result.FailFrom[Statement](aggregatedResult)
	}
	aggregated := aggregatedResult.Data

	tokenExpiry := statementTokenExpiryMinutes
	maxDownloads := statementMaxDownloads
	req := documentapi.GenerateRequest{
		DocumentType: documentapi.DocumentTypeTransactionStatement,
		Data: map[string]any{
			"customerId":        aggregated.CustomerID,
			"customerName":      aggregated.CustomerName,
			"accounts":          aggregated.Accounts,
			"totalTransactions": aggregated.TotalTransactions,
			"dateRange":         statementDateRange(aggregated.DateRange, dateRange),
		},
		Options: &documentapi.GenerateOptions{
			TokenExpiryMinutes: &tokenExpiry,
			MaxDownloads:       &maxDownloads,
		},
	}

	documentResult := s.documents.GenerateDocument(ctx, req)
	if !documentResult.Success {
		return result.FailFrom[Statement](documentResult)
	}

	doc := documentResult.Data
	return result.Ok(Statement{
		StatementID:  doc.DocumentID,
		FileName:     doc.FileName,
		DownloadURL:  doc.DownloadURL,
		ExpiresAt:    doc.ExpiresAt,
		MaxDownloads: doc.MaxDownloads,
	})
}

func statementDateRange(aggregated *DateRange, requested DateRange) DateRange {
	if aggregated != nil {
		return *aggregated
	}
	return requested
}

func summarizeCategories(all []banking.Transaction, totalDebits, totalCredits decimal.Decimal) []CategorySummary {
	if len(all) == 0 {
		return nil
	}

	type bucket struct {
		total decimal.Decimal
		count int
	}
	buckets := make(map[string]*bucket)
	for _, tx := range all {
		category := tx.MerchantCategory
		if category == "" {
			category = "Uncategorized"
		}
		b, ok := buckets[category]
		if !ok {
			b = &bucket{}
			buckets[category] = b
		}
		b.total = b.total.Add(tx.Amount)
		b.count++
	}

	hundred := decimal.NewFromInt(100)
	summaries := make([]CategorySummary, 0, len(buckets))
	for category, b := range buckets {
		summary := CategorySummary{
			Category:         category,
			TransactionCount: b.count,
			TotalAmount:      b.total,
			AverageAmount:    b.total.Div(decimal.NewFromInt(int64(b.count))).Round(2),
		}
		switch {
		case b.total.IsNegative() && totalDebits.IsPositive():
			summary.PercentageOfTotal = b.total.Abs().Div(totalDebits).Mul(hundred).Round(2)
		case b.total.IsPositive() && totalCredits.IsPositive():
			summary.PercentageOfTotal = b.total.Div(totalCredits).Mul(hundred).Round(2)
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		ai, aj := summaries[i].TotalAmount.Abs(), summaries[j].TotalAmount.Abs()
		if !ai.Equal(aj) {
			return ai.GreaterThan(aj)
		}
		return summaries[i].Category < summaries[j].Category
	})
	return summaries
}
