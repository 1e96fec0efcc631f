package services

import (
	"context"

	"github.com/hotwellkz/app66/internal/core/domain"
	"github.com/hotwellkz/app66/internal/dto"
)

// LedgerSvcFacade defines the ledger engine operations exposed to callers.
type LedgerSvcFacade interface {
	// Transfer atomically moves funds between two categories, writing the
	// paired expense/income records and updating both cached balances.
	Transfer(ctx context.Context, req dto.TransferRequest) (*dto.TransferResponse, error)

	// Reverse deletes a transaction pair given either side's id and restores
	// the balance of the category owning the passed transaction.
	Reverse(ctx context.Context, transactionID string) error

	// ListTransactionsByCategory returns up to limit transactions for the
	// category, newest first.
	ListTransactionsByCategory(ctx context.Context, categoryID string, limit int) ([]domain.Transaction, error)
}
