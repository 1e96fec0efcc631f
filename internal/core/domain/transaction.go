package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of a ledger record relative to its category.
type TransactionType string

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

// Transaction represents one leg of a transfer, affecting exactly one category.
// Every transfer produces two Transactions linked by RelatedTransactionID: an
// expense on the source category and an income on the target category, with
// amounts that are additive inverses. The shared RelatedTransactionID is the
// expense-side record's own id.
type Transaction struct {
	TransactionID        string          `json:"transactionID"`        // Primary Key (UUID)
	CategoryID           string          `json:"categoryID"`           // FK -> Category.categoryID
	Amount               decimal.Decimal `json:"amount"`               // Signed delta; negative = outflow
	Type                 TransactionType `json:"type"`                 // expense or income, redundant with sign, kept for display/query
	FromUser             string          `json:"fromUser"`             // Source category title at transfer time (historical snapshot)
	ToUser               string          `json:"toUser"`               // Target category title at transfer time (historical snapshot)
	Description          string          `json:"description"`          // Required, non-empty after trimming
	Date                 time.Time       `json:"date"`                 // Server-assigned at commit time
	IsSalary             bool            `json:"isSalary"`             // Classification flag, opaque to the engine
	RelatedTransactionID string          `json:"relatedTransactionID"` // Shared by both legs of a pair
}

// IsExpense reports whether this record is the withdrawal leg of its pair.
func (t Transaction) IsExpense() bool {
	return t.Type == Expense
}
