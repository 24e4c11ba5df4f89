// Package events defines the derived domain events forwarded to the
// downstream fraud-analysis service. The event id travels out-of-band
// (HTTP header or Kafka record header) as the consumer's idempotency key.
package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/banking"
)

// TypeTransactionCreated is the event type emitted for every aggregated
// transaction.
const TypeTransactionCreated = "TransactionCreated"

// TransactionEvent is the JSON body delivered for one transaction.
type TransactionEvent struct {
	TransactionID    string          `json:"transaction_id"`
	CustomerID       int64           `json:"customer_id"`
	AccountID        int64           `json:"account_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	MerchantName     string          `json:"merchant_name"`
	MerchantCode     string          `json:"merchant_code"`
	MerchantCategory string          `json:"merchant_category"`
	TransactionDate  time.Time       `json:"transaction_date"`
	TransactionType  string          `json:"transaction_type"`
}

// FromTransaction derives a TransactionEvent from a ledger transaction.
func FromTransaction(tx banking.Transaction, customerID int64) TransactionEvent {
	category := tx.MerchantCategory
	if category == "" {
		category = "Unknown"
	}

	return TransactionEvent{
		TransactionID:    tx.TransactionID,
		CustomerID:       customerID,
		AccountID:        tx.AccountID,
		Amount:           tx.Amount,
		Currency:         tx.Currency,
		MerchantName:     tx.MerchantName,
		MerchantCode:     tx.MerchantCode,
		MerchantCategory: category,
		TransactionDate:  tx.Date,
		TransactionType:  tx.Type,
	}
}
