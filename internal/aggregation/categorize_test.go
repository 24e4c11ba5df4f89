package aggregation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/banking"
)

func debit(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Neg()
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		tx   banking.Transaction
		want string
	}{
		{
			name: "credit is income",
			tx:   banking.Transaction{Type: banking.TypeCredit, Amount: decimal.NewFromInt(25000), Description: "SALARY PAYMENT"},
			want: "Income",
		},
		{
			name: "credit refund",
			tx:   banking.Transaction{Type: banking.TypeCredit, Amount: decimal.NewFromInt(120), Description: "PURCHASE REFUND"},
			want: "Refund",
		},
		{
			name: "grocery mcc",
			tx:   banking.Transaction{Type: banking.TypeDebit, Amount: debit(350), MerchantCode: "5411", MerchantName: "SOME SHOP"},
			want: "Groceries",
		},
		{
			name: "restaurant mcc",
			tx:   banking.Transaction{Type: banking.TypeDebit, Amount: debit(180), MerchantCode: "5814"},
			want: "Restaurants",
		},
		{
			name: "transport mcc",
			tx:   banking.Transaction{Type: banking.TypeDebit, Amount: debit(95), MerchantCode: "4121"},
			want: "Transport",
		},
		{
			name: "unknown mcc falls through to merchant name",
			tx:   banking.Transaction{Type: banking.TypeDebit, Amount: debit(99), MerchantCode: "9999", MerchantName: "NETFLIX.COM"},
			want: "Entertainment",
		},
		{
			name: "merchant name only",
			tx:   banking.Transaction{Type: banking.TypeDebit, Amount: debit(420), MerchantName: "Checkers Hyper"},
			want: "Groceries",
		},
		{
			name: "pharmacy keyword",
			tx:   banking.Transaction{Type: banking.TypeDebit, Amount: debit(60), MerchantName: "Dis-Chem Pharmacies"},
			want: "Health",
		},
		{
			name: "nothing to go on",
			tx:   banking.Transaction{Type: banking.TypeDebit, Amount: debit(10)},
			want: "Other",
		},
		{
			name: "unrecognized merchant",
			tx:   banking.Transaction{Type: banking.TypeDebit, Amount: debit(10), MerchantName: "XYZZY"},
			want: "Other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.tx))
		})
	}
}
