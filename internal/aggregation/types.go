package aggregation

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/banking"
)

// DateRange bounds an aggregation query. Nil ends are unbounded.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// IsZero reports whether no bound is set.
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// AccountActivity is one account's balances and transactions within an
// aggregation. Accounts appear only when both their transactions and
// balance were obtained; there are no zero-filled placeholders.
type AccountActivity struct {
	AccountID        int64                 `json:"account_id"`
	AccountType      string                `json:"account_type"`
	AccountNumber    string                `json:"account_number"`
	Currency         string                `json:"currency"`
	CurrentBalance   decimal.Decimal       `json:"current_balance"`
	AvailableBalance decimal.Decimal       `json:"available_balance"`
	Transactions     []banking.Transaction `json:"transactions"`
}

// AggregatedTransactions is the cross-account view for one customer.
type AggregatedTransactions struct {
	CustomerID        int64             `json:"customer_id"`
	CustomerName      string            `json:"customer_name"`
	Accounts          []AccountActivity `json:"accounts"`
	TotalTransactions int               `json:"total_transactions"`
	DateRange         *DateRange        `json:"date_range,omitempty"`
}

// CategorySummary aggregates one spending or income category.
type CategorySummary struct {
	Category          string          `json:"category"`
	TransactionCount  int             `json:"transaction_count"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	AverageAmount     decimal.Decimal `json:"average_amount"`
	PercentageOfTotal decimal.Decimal `json:"percentage_of_total"`
}

// TransactionSummary is the roll-up view over an aggregation. Debit and
// credit totals are magnitudes; NetAmount is credits minus debits.
type TransactionSummary struct {
	CustomerID   int64             `json:"customer_id"`
	CustomerName string            `json:"customer_name"`
	TotalDebits  decimal.Decimal   `json:"total_debits"`
	TotalCredits decimal.Decimal   `json:"total_credits"`
	NetAmount    decimal.Decimal   `json:"net_amount"`
	Categories   []CategorySummary `json:"category_summaries"`
	DateRange    *DateRange        `json:"date_range,omitempty"`
}

// Statement is the outcome of rendering a transaction statement.
type Statement struct {
	StatementID  uuid.UUID `json:"statement_id"`
	FileName     string    `json:"file_name"`
	DownloadURL  string    `json:"download_url"`
	ExpiresAt    time.Time `json:"expires_at"`
	MaxDownloads int       `json:"max_downloads"`
}
