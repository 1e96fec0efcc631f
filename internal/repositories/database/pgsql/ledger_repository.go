package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/hotwellkz/app66/internal/apperrors"
	"github.com/hotwellkz/app66/internal/core/domain"
	portsrepo "github.com/hotwellkz/app66/internal/core/ports/repositories"
	"github.com/hotwellkz/app66/internal/utils"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
	categoryRepo *PgxCategoryRepository
}

// newPgxLedgerRepository creates a new repository for transaction data and the
// atomic units that keep category balances consistent with it.
func newPgxLedgerRepository(pool *pgxpool.Pool, categoryRepo *PgxCategoryRepository) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		categoryRepo:   categoryRepo,
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const transactionColumns = `transaction_id, category_id, amount, type, from_user, to_user, description, date, is_salary, related_transaction_id`

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.TransactionID,
		&t.CategoryID,
		&t.Amount,
		&t.Type,
		&t.FromUser,
		&t.ToUser,
		&t.Description,
		&t.Date,
		&t.IsSalary,
		&t.RelatedTransactionID,
	)
	return t, err
}

// SaveTransferPair persists both legs of a transfer and applies the balance
// deltas within one database transaction. Balances are re-read under row locks
// inside the transaction, so a concurrent committed writer forces this unit to
// fail with apperrors.ErrConflict instead of silently overwriting.
func (r *PgxLedgerRepository) SaveTransferPair(ctx context.Context, withdrawal domain.Transaction, deposit domain.Transaction, balanceChanges map[string]decimal.Decimal) (time.Time, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return time.Time{}, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	// Will be ignored if the transaction is committed successfully
	defer r.Rollback(ctx, tx)

	// 1. Lock both category rows and read current balances inside the unit.
	categoryIDs := make([]string, 0, len(balanceChanges))
	for categoryID := range balanceChanges {
		categoryIDs = append(categoryIDs, categoryID)
	}

	lockedCategories, err := r.categoryRepo.findCategoriesByIDsForUpdate(ctx, tx, categoryIDs)
	if err != nil {
		return time.Time{}, apperrors.NewAppError(500, "failed to lock categories for update", classifyTxError(err))
	}
	for _, categoryID := range categoryIDs {
		if _, ok := lockedCategories[categoryID]; !ok {
			return time.Time{}, errors.Join(apperrors.ErrNotFound, errors.New("category "+categoryID+" not found during transfer"))
		}
	}

	// Server-assigned commit timestamp, shared by both records.
	now := time.Now().UTC()

	// 2. Compute new absolute balances through the codec round-trip.
	newBalances := make(map[string]decimal.Decimal, len(balanceChanges))
	for categoryID, delta := range balanceChanges {
		current := lockedCategories[categoryID].Balance
		newBalances[categoryID] = utils.NormalizeAmount(current.Add(delta))
	}

	// 3. Insert both legs of the pair.
	insertQuery := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, txn := range []domain.Transaction{withdrawal, deposit} {
		_, err = tx.Exec(ctx, insertQuery,
			txn.TransactionID,
			txn.CategoryID,
			txn.Amount,
			txn.Type,
			txn.FromUser,
			txn.ToUser,
			txn.Description,
			now,
			txn.IsSalary,
			txn.RelatedTransactionID,
		)
		if err != nil {
			return time.Time{}, apperrors.NewAppError(500, "failed to insert transaction "+txn.TransactionID, classifyTxError(err))
		}
	}

	// 4. Write the updated balances.
	if err := r.categoryRepo.updateCategoryBalancesInTx(ctx, tx, newBalances, now); err != nil {
		return time.Time{}, apperrors.NewAppError(500, "failed to update category balances", classifyTxError(err))
	}

	// 5. Commit; serialization failures surface as retryable conflicts.
	if err := tx.Commit(ctx); err != nil {
		err = classifyTxError(err)
		if errors.Is(err, apperrors.ErrConflict) {
			return time.Time{}, err
		}
		return time.Time{}, apperrors.NewAppError(500, "failed to commit transfer for "+withdrawal.RelatedTransactionID, err)
	}

	return now, nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}
	return &txn, nil
}

// FindTransactionsByRelatedID retrieves every transaction sharing the given
// relatedTransactionId.
func (r *PgxLedgerRepository) FindTransactionsByRelatedID(ctx context.Context, relatedTransactionID string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE related_transaction_id = $1;`

	rows, err := r.Pool.Query(ctx, query, relatedTransactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions by related ID "+relatedTransactionID, err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read transaction rows", err)
	}
	return transactions, nil
}

// DeleteTransactions removes the given transactions and applies the one
// balance adjustment as a single all-or-nothing batch. The reads feeding the
// adjustment are plain reads; the batch itself carries no conflict detection
// beyond the database's own write atomicity.
func (r *PgxLedgerRepository) DeleteTransactions(ctx context.Context, transactionIDs []string, adjustment *portsrepo.BalanceAdjustment) error {
	if len(transactionIDs) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	_, err = tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = ANY($1);`, transactionIDs)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete transactions", classifyTxError(err))
	}

	if adjustment != nil {
		var current decimal.Decimal
		err := tx.QueryRow(ctx, `SELECT balance FROM categories WHERE category_id = $1;`, adjustment.CategoryID).Scan(&current)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			// The category was deleted out from under its transactions;
			// nothing to restore, matching the observed source behavior.
		case err != nil:
			return apperrors.NewAppError(500, "failed to read balance for category "+adjustment.CategoryID, classifyTxError(err))
		default:
			newBalance := utils.NormalizeAmount(current.Add(adjustment.Delta))
			_, err = tx.Exec(ctx,
				`UPDATE categories SET balance = $2, updated_at = $3 WHERE category_id = $1;`,
				adjustment.CategoryID, newBalance, time.Now().UTC(),
			)
			if err != nil {
				return apperrors.NewAppError(500, "failed to restore balance for category "+adjustment.CategoryID, classifyTxError(err))
			}
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return err
	}
	return nil
}

// ListTransactionsByCategoryID returns up to limit transactions for the
// category, newest first.
func (r *PgxLedgerRepository) ListTransactionsByCategoryID(ctx context.Context, categoryID string, limit int) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE category_id = $1
		ORDER BY date DESC, transaction_id DESC
		LIMIT $2;
	`

	rows, err := r.Pool.Query(ctx, query, categoryID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list transactions for category "+categoryID, err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read transaction rows", err)
	}
	return transactions, nil
}
