package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/hotwellkz/app66/internal/apperrors"
	"github.com/hotwellkz/app66/internal/core/domain"
	portsrepo "github.com/hotwellkz/app66/internal/core/ports/repositories"
	"github.com/hotwellkz/app66/internal/repositories/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCategory(title string, balance string, row int) domain.Category {
	return domain.Category{
		CategoryID: uuid.NewString(),
		Title:      title,
		Balance:    decimal.RequireFromString(balance),
		Row:        row,
		IsVisible:  true,
	}
}

func newPair(sourceID, targetID string, amount decimal.Decimal) (domain.Transaction, domain.Transaction) {
	withdrawalID := uuid.NewString()
	withdrawal := domain.Transaction{
		TransactionID:        withdrawalID,
		CategoryID:           sourceID,
		Amount:               amount.Neg(),
		Type:                 domain.Expense,
		Description:          "test",
		RelatedTransactionID: withdrawalID,
	}
	deposit := domain.Transaction{
		TransactionID:        uuid.NewString(),
		CategoryID:           targetID,
		Amount:               amount,
		Type:                 domain.Income,
		Description:          "test",
		RelatedTransactionID: withdrawalID,
	}
	return withdrawal, deposit
}

func TestSaveTransferPairUpdatesBalancesAndStampsDates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	source := newCategory("A", "1000", 1)
	target := newCategory("B", "200", 2)
	require.NoError(t, store.SaveCategory(ctx, source))
	require.NoError(t, store.SaveCategory(ctx, target))

	amount := decimal.NewFromInt(300)
	withdrawal, deposit := newPair(source.CategoryID, target.CategoryID, amount)

	committedAt, err := store.SaveTransferPair(ctx, withdrawal, deposit, map[string]decimal.Decimal{
		source.CategoryID: amount.Neg(),
		target.CategoryID: amount,
	})
	require.NoError(t, err)
	assert.False(t, committedAt.IsZero())

	sourceAfter, err := store.FindCategoryByID(ctx, source.CategoryID)
	require.NoError(t, err)
	assert.Equal(t, "700", sourceAfter.Balance.String())

	targetAfter, err := store.FindCategoryByID(ctx, target.CategoryID)
	require.NoError(t, err)
	assert.Equal(t, "500", targetAfter.Balance.String())

	stored, err := store.FindTransactionByID(ctx, withdrawal.TransactionID)
	require.NoError(t, err)
	assert.True(t, stored.Date.Equal(committedAt))

	related, err := store.FindTransactionsByRelatedID(ctx, withdrawal.RelatedTransactionID)
	require.NoError(t, err)
	assert.Len(t, related, 2)
}

func TestSaveTransferPairMissingCategory(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	source := newCategory("A", "1000", 1)
	require.NoError(t, store.SaveCategory(ctx, source))

	amount := decimal.NewFromInt(10)
	withdrawal, deposit := newPair(source.CategoryID, "missing", amount)

	_, err := store.SaveTransferPair(ctx, withdrawal, deposit, map[string]decimal.Decimal{
		source.CategoryID: amount.Neg(),
		"missing":         amount,
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Nothing applied.
	sourceAfter, err := store.FindCategoryByID(ctx, source.CategoryID)
	require.NoError(t, err)
	assert.Equal(t, "1000", sourceAfter.Balance.String())
	_, err = store.FindTransactionByID(ctx, withdrawal.TransactionID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListCategoriesOrdersByRowAndFiltersHidden(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	second := newCategory("Second", "0", 2)
	first := newCategory("First", "0", 1)
	hidden := newCategory("Hidden", "0", 3)
	hidden.IsVisible = false

	for _, c := range []domain.Category{second, first, hidden} {
		require.NoError(t, store.SaveCategory(ctx, c))
	}

	visible, err := store.ListCategories(ctx, false)
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "First", visible[0].Title)
	assert.Equal(t, "Second", visible[1].Title)

	all, err := store.ListCategories(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDeleteTransactionsAppliesSingleAdjustment(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	source := newCategory("A", "700", 1)
	target := newCategory("B", "500", 2)
	require.NoError(t, store.SaveCategory(ctx, source))
	require.NoError(t, store.SaveCategory(ctx, target))

	amount := decimal.NewFromInt(300)
	withdrawal, deposit := newPair(source.CategoryID, target.CategoryID, amount)
	_, err := store.SaveTransferPair(ctx, withdrawal, deposit, map[string]decimal.Decimal{
		source.CategoryID: amount.Neg(),
		target.CategoryID: amount,
	})
	require.NoError(t, err)

	// Delete the pair and restore only the source's balance.
	err = store.DeleteTransactions(ctx,
		[]string{withdrawal.TransactionID, deposit.TransactionID},
		&portsrepo.BalanceAdjustment{CategoryID: source.CategoryID, Delta: amount})
	require.NoError(t, err)

	_, err = store.FindTransactionByID(ctx, withdrawal.TransactionID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = store.FindTransactionByID(ctx, deposit.TransactionID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	sourceAfter, err := store.FindCategoryByID(ctx, source.CategoryID)
	require.NoError(t, err)
	assert.Equal(t, "700", sourceAfter.Balance.String())

	// The counterpart's balance is deliberately not touched by the batch.
	targetAfter, err := store.FindCategoryByID(ctx, target.CategoryID)
	require.NoError(t, err)
	assert.Equal(t, "800", targetAfter.Balance.String())
}

// Concurrent transfers between the same two categories must never lose an
// update: a conflicting commit returns ErrConflict and the caller retries.
func TestConcurrentTransfersConflictAndRetryWithoutLostUpdates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	source := newCategory("A", "10000", 1)
	target := newCategory("B", "0", 2)
	require.NoError(t, store.SaveCategory(ctx, source))
	require.NoError(t, store.SaveCategory(ctx, target))

	const workers = 25
	const transfersPerWorker = 4
	amount := decimal.NewFromInt(1)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < transfersPerWorker; i++ {
				for {
					withdrawal, deposit := newPair(source.CategoryID, target.CategoryID, amount)
					_, err := store.SaveTransferPair(ctx, withdrawal, deposit, map[string]decimal.Decimal{
						source.CategoryID: amount.Neg(),
						target.CategoryID: amount,
					})
					if err == nil {
						break
					}
					if !errors.Is(err, apperrors.ErrConflict) {
						t.Errorf("unexpected error: %v", err)
						return
					}
					// Conflict: retry the whole transfer.
				}
			}
		}()
	}
	wg.Wait()

	total := int64(workers * transfersPerWorker)
	sourceAfter, err := store.FindCategoryByID(ctx, source.CategoryID)
	require.NoError(t, err)
	targetAfter, err := store.FindCategoryByID(ctx, target.CategoryID)
	require.NoError(t, err)

	assert.Equal(t, decimal.NewFromInt(10000-total).String(), sourceAfter.Balance.String())
	assert.Equal(t, decimal.NewFromInt(total).String(), targetAfter.Balance.String())
}
