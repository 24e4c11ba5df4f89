// Package banking holds the upstream-facing domain types: customers,
// accounts, balances, and transactions as the gateway clients return them.
package banking

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types as reported by the transaction ledger.
const (
	TypeDebit  = "Debit"
	TypeCredit = "Credit"
)

// Customer identifies a customer in the customer directory.
type Customer struct {
	CustomerID int64  `json:"customer_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email,omitempty"`
}

// Name returns the customer's display name.
func (c Customer) Name() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// Account is one of a customer's accounts.
type Account struct {
	AccountID     int64  `json:"account_id"`
	AccountType   string `json:"account_type"`
	AccountNumber string `json:"account_number"`
	Currency      string `json:"currency"`
}

// Balance is the current balance of an account.
type Balance struct {
	AccountID        int64           `json:"account_id"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	Currency         string          `json:"currency"`
}

// Transaction is a single ledger entry.
type Transaction struct {
	TransactionID    string          `json:"transaction_id"`
	AccountID        int64           `json:"account_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Type             string          `json:"type"`
	Date             time.Time       `json:"date"`
	Description      string          `json:"description,omitempty"`
	MerchantName     string          `json:"merchant_name,omitempty"`
	MerchantCode     string          `json:"merchant_code,omitempty"`
	MerchantCategory string          `json:"merchant_category,omitempty"`
}

// TransactionPage is one page of transactions for an account.
type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	Page         int           `json:"page"`
	PageSize     int           `json:"page_size"`
	TotalCount   int           `json:"total_count"`
}
