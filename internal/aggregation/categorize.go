package aggregation

import (
	"strings"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/banking"
)

// Categorize assigns a spending category to a transaction that arrived
// without one. Credits are income-like; debits are classified by merchant
// category code first, merchant name second.
func Categorize(tx banking.Transaction) string {
	if strings.EqualFold(tx.Type, banking.TypeCredit) || tx.Amount.IsPositive() {
		return categorizeIncome(tx)
	}

	if tx.MerchantCode != "" {
		if category := categorizeByMCC(tx.MerchantCode); category != "Other" {
			return category
		}
	}

	if tx.MerchantName != "" {
		return categorizeByMerchantName(tx.MerchantName)
	}

	return "Other"
}

func categorizeIncome(tx banking.Transaction) string {
	description := strings.ToUpper(tx.Description)
	merchant := strings.ToUpper(tx.MerchantName)

	switch {
	case strings.Contains(description, "REFUND"),
		strings.Contains(description, "REVERSAL"),
		strings.Contains(merchant, "REFUND"):
		return "Refund"
	default:
		return "Income"
	}
}

func categorizeByMCC(code string) string {
	switch code {
	case "5411", "5422":
		return "Groceries"
	case "5812", "5814":
		return "Restaurants"
	case "5541", "5542", "5172", "4121":
		return "Transport"
	case "4900", "4814":
		return "Utilities"
	case "7832", "7995", "7929":
		return "Entertainment"
	case "5311", "5651", "5944", "5999":
		return "Shopping"
	case "5912", "8011":
		return "Health"
	case "0742", "7230", "7298":
		return "Services"
	case "6010", "6011":
		return "Financial"
	default:
		return "Other"
	}
}

var merchantKeywords = []struct {
	category string
	keywords []string
}{
	{"Groceries", []string{"WOOLWORTHS", "CHECKERS", "PICK N PAY", "SPAR", "FOOD", "MARKET"}},
	{"Restaurants", []string{"RESTAURANT", "MCDONALD", "KFC", "NANDO", "STEERS", "WIMPY", "SPUR", "OCEAN BASKET"}},
	{"Transport", []string{"UBER", "BOLT", "SHELL", "ENGEN", "BP", "TOTAL", "FUEL", "PETROL"}},
	{"Entertainment", []string{"CINEMA", "NETFLIX", "SPOTIFY", "DSTV", "STER KINEKOR", "NU METRO"}},
	{"Utilities", []string{"CITY OF", "ESKOM", "VODACOM", "MTN", "TELKOM", "MUNICIPALITY"}},
	{"Shopping", []string{"EDGARS", "MR PRICE", "ACKERMANS", "TAKEALOT", "AMAZON"}},
	{"Health", []string{"PHARMACY", "CLICKS", "DIS-CHEM", "DOCTOR", "HOSPITAL", "CLINIC"}},
}

func categorizeByMerchantName(merchantName string) string {
	name := strings.ToUpper(merchantName)
	for _, group := range merchantKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(name, keyword) {
				return group.category
			}
		}
	}
	return "Other"
}
