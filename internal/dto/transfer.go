package dto

import (
	"time"

	"github.com/hotwellkz/app66/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferRequest defines the payload for moving funds between two categories.
type TransferRequest struct {
	SourceCategoryID string          `json:"sourceCategoryID" binding:"required"`
	TargetCategoryID string          `json:"targetCategoryID" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	Description      string          `json:"description" binding:"required"`
	IsSalary         bool            `json:"isSalary"`
}

// TransferResponse returns both legs of the created pair.
type TransferResponse struct {
	RelatedTransactionID string                `json:"relatedTransactionID"`
	Transactions         []TransactionResponse `json:"transactions"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID        string          `json:"transactionID"`
	CategoryID           string          `json:"categoryID"`
	Amount               decimal.Decimal `json:"amount"`
	Type                 string          `json:"type"` // expense or income
	FromUser             string          `json:"fromUser"`
	ToUser               string          `json:"toUser"`
	Description          string          `json:"description"`
	Date                 time.Time       `json:"date"`
	IsSalary             bool            `json:"isSalary"`
	RelatedTransactionID string          `json:"relatedTransactionID"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:        txn.TransactionID,
		CategoryID:           txn.CategoryID,
		Amount:               txn.Amount,
		Type:                 string(txn.Type),
		FromUser:             txn.FromUser,
		ToUser:               txn.ToUser,
		Description:          txn.Description,
		Date:                 txn.Date,
		IsSalary:             txn.IsSalary,
		RelatedTransactionID: txn.RelatedTransactionID,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
