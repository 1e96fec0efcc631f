package repositories

import (
	"context"
	"time"

	"github.com/hotwellkz/app66/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceAdjustment describes a single category balance change applied
// alongside a batch deletion of transactions.
type BalanceAdjustment struct {
	CategoryID string
	Delta      decimal.Decimal
}

// LedgerRepositoryFacade defines persistence operations for transactions and
// the atomic units that keep cached category balances consistent with them.
type LedgerRepositoryFacade interface {
	// SaveTransferPair persists both legs of a transfer and applies the given
	// per-category balance deltas in a single atomic unit. The current
	// balances are re-read inside that unit; if any category read during the
	// unit is modified by a concurrent committed writer before this unit
	// commits, the whole operation fails with apperrors.ErrConflict and
	// nothing is applied. The returned time is the server-assigned timestamp
	// stamped on both records at commit.
	SaveTransferPair(ctx context.Context, withdrawal domain.Transaction, deposit domain.Transaction, balanceChanges map[string]decimal.Decimal) (time.Time, error)

	// FindTransactionByID retrieves a transaction by its ID.
	// Returns apperrors.ErrNotFound if no such transaction exists.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionsByRelatedID retrieves every transaction sharing the
	// given relatedTransactionId, in no particular order.
	FindTransactionsByRelatedID(ctx context.Context, relatedTransactionID string) ([]domain.Transaction, error)

	// DeleteTransactions removes the given transactions and, when adjustment
	// is non-nil and its category still exists, applies the balance delta to
	// that one category. All deletions and the balance update commit as a
	// single all-or-nothing batch; unlike SaveTransferPair, the batch carries
	// no read-set conflict detection.
	DeleteTransactions(ctx context.Context, transactionIDs []string, adjustment *BalanceAdjustment) error

	// ListTransactionsByCategoryID returns up to limit transactions for the
	// category, newest first.
	ListTransactionsByCategoryID(ctx context.Context, categoryID string, limit int) ([]domain.Transaction, error)
}
