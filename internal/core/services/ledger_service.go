package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hotwellkz/app66/internal/apperrors"
	"github.com/hotwellkz/app66/internal/core/domain"
	portsrepo "github.com/hotwellkz/app66/internal/core/ports/repositories"
	portssvc "github.com/hotwellkz/app66/internal/core/ports/services"
	"github.com/hotwellkz/app66/internal/dto"
	"github.com/hotwellkz/app66/internal/middleware"
	"github.com/hotwellkz/app66/internal/utils"
)

var (
	ErrSourceCategoryNotFound = fmt.Errorf("%w: source category", apperrors.ErrNotFound)
	ErrTargetCategoryNotFound = fmt.Errorf("%w: target category", apperrors.ErrNotFound)
	ErrTransactionNotFound    = fmt.Errorf("%w: transaction", apperrors.ErrNotFound)
)

// ledgerService executes transfers and reversals against the category store
// and the transaction log, enforcing the double-entry pairing invariant.
type ledgerService struct {
	categoryRepo portsrepo.CategoryRepositoryFacade
	ledgerRepo   portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, categoryRepo portsrepo.CategoryRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		categoryRepo: categoryRepo,
		ledgerRepo:   ledgerRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// Transfer moves funds from the source category to the target category as one
// atomic unit: two linked transaction records plus both balance updates. On
// any failure the store is left untouched; a conflicting concurrent writer
// surfaces as apperrors.ErrConflict and the caller may retry.
func (s *ledgerService) Transfer(ctx context.Context, req dto.TransferRequest) (*dto.TransferResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// --- Validation, before any write ---
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ErrInvalidAmount
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, apperrors.ErrMissingDescription
	}

	categories, err := s.categoryRepo.FindCategoriesByIDs(ctx, []string{req.SourceCategoryID, req.TargetCategoryID})
	if err != nil {
		logger.Error("Failed to fetch categories for transfer", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	source, ok := categories[req.SourceCategoryID]
	if !ok {
		return nil, fmt.Errorf("%w (ID %s)", ErrSourceCategoryNotFound, req.SourceCategoryID)
	}
	target, ok := categories[req.TargetCategoryID]
	if !ok {
		return nil, fmt.Errorf("%w (ID %s)", ErrTargetCategoryNotFound, req.TargetCategoryID)
	}

	amount := utils.NormalizeAmount(req.Amount)

	// The withdrawal's own id doubles as the shared relatedTransactionId.
	withdrawalID := uuid.NewString()

	withdrawal := domain.Transaction{
		TransactionID:        withdrawalID,
		CategoryID:           source.CategoryID,
		Amount:               amount.Neg(),
		Type:                 domain.Expense,
		FromUser:             source.Title,
		ToUser:               target.Title,
		Description:          description,
		IsSalary:             req.IsSalary,
		RelatedTransactionID: withdrawalID,
	}

	deposit := domain.Transaction{
		TransactionID:        uuid.NewString(),
		CategoryID:           target.CategoryID,
		Amount:               amount,
		Type:                 domain.Income,
		FromUser:             source.Title,
		ToUser:               target.Title,
		Description:          description,
		IsSalary:             req.IsSalary,
		RelatedTransactionID: withdrawalID,
	}

	// Net balance deltas; a self-transfer accumulates to zero.
	balanceChanges := make(map[string]decimal.Decimal)
	balanceChanges[source.CategoryID] = balanceChanges[source.CategoryID].Sub(amount)
	balanceChanges[target.CategoryID] = balanceChanges[target.CategoryID].Add(amount)

	committedAt, err := s.ledgerRepo.SaveTransferPair(ctx, withdrawal, deposit, balanceChanges)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Transfer hit a concurrent update, caller may retry",
				slog.String("source_category_id", source.CategoryID),
				slog.String("target_category_id", target.CategoryID))
			return nil, err
		}
		logger.Error("Failed to save transfer pair", slog.String("error", err.Error()),
			slog.String("source_category_id", source.CategoryID),
			slog.String("target_category_id", target.CategoryID))
		return nil, fmt.Errorf("failed to save transfer: %w", err)
	}

	withdrawal.Date = committedAt
	deposit.Date = committedAt

	logger.Info("Transfer completed",
		slog.String("related_transaction_id", withdrawalID),
		slog.String("source_category_id", source.CategoryID),
		slog.String("target_category_id", target.CategoryID),
		slog.String("amount", utils.FormatAmount(amount)))

	return &dto.TransferResponse{
		RelatedTransactionID: withdrawalID,
		Transactions: []dto.TransactionResponse{
			dto.ToTransactionResponse(&withdrawal),
			dto.ToTransactionResponse(&deposit),
		},
	}, nil
}

// Reverse deletes a transaction pair given either side's id. Both records are
// removed in one all-or-nothing batch; only the balance of the category owning
// the explicitly passed transaction is restored. The counterpart category is
// left to administrative reconciliation.
func (s *ledgerService) Reverse(ctx context.Context, transactionID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(transactionID) == "" {
		return fmt.Errorf("%w: transaction ID is required", apperrors.ErrValidation)
	}

	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w (ID %s)", ErrTransactionNotFound, transactionID)
		}
		logger.Error("Failed to fetch transaction for reversal", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to fetch transaction %s: %w", transactionID, err)
	}

	deleteIDs := []string{txn.TransactionID}

	// Either side's id locates the whole pair through the shared related id.
	if txn.RelatedTransactionID != "" {
		related, err := s.ledgerRepo.FindTransactionsByRelatedID(ctx, txn.RelatedTransactionID)
		if err != nil {
			logger.Error("Failed to fetch related transactions for reversal", slog.String("error", err.Error()), slog.String("related_transaction_id", txn.RelatedTransactionID))
			return fmt.Errorf("failed to fetch related transactions: %w", err)
		}
		for _, rel := range related {
			if rel.TransactionID != txn.TransactionID {
				deleteIDs = append(deleteIDs, rel.TransactionID)
			}
		}
	}

	// Undo this record's effect on its own category: deleting an expense adds
	// back the absolute amount, deleting an income subtracts it.
	var delta decimal.Decimal
	if txn.IsExpense() {
		delta = txn.Amount.Abs()
	} else {
		delta = txn.Amount.Neg()
	}

	adjustment := &portsrepo.BalanceAdjustment{
		CategoryID: txn.CategoryID,
		Delta:      utils.NormalizeAmount(delta),
	}

	if err := s.ledgerRepo.DeleteTransactions(ctx, deleteIDs, adjustment); err != nil {
		logger.Error("Failed to delete transaction pair", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}

	logger.Info("Transaction pair reversed",
		slog.String("transaction_id", txn.TransactionID),
		slog.Int("deleted_count", len(deleteIDs)),
		slog.String("category_id", txn.CategoryID))
	return nil
}

// ListTransactionsByCategory retrieves transactions for a category, newest first.
func (s *ledgerService) ListTransactionsByCategory(ctx context.Context, categoryID string, limit int) ([]domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.categoryRepo.FindCategoryByID(ctx, categoryID); err != nil {
		return nil, fmt.Errorf("failed to find category %s: %w", categoryID, err)
	}

	if limit <= 0 {
		limit = 20 // Default limit
	}

	transactions, err := s.ledgerRepo.ListTransactionsByCategoryID(ctx, categoryID, limit)
	if err != nil {
		logger.Error("Failed to list transactions by category", slog.String("error", err.Error()), slog.String("category_id", categoryID))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}
	return transactions, nil
}
