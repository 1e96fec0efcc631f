// Package memory provides an in-memory implementation of the repository
// facades. Category documents carry a version that is checked at commit time,
// so concurrent transfers conflict and retry instead of losing updates; the
// same protocol the pgsql implementation gets from row locks. It backs the
// service tests and local runs without postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hotwellkz/app66/internal/apperrors"
	"github.com/hotwellkz/app66/internal/core/domain"
	portsrepo "github.com/hotwellkz/app66/internal/core/ports/repositories"
	"github.com/hotwellkz/app66/internal/utils"
	"github.com/shopspring/decimal"
)

// categoryDoc stores the balance in its canonical serialized form, the way
// the original category documents did; reads parse it, writes format it.
type categoryDoc struct {
	category domain.Category
	amount   string
	version  uint64
}

// Store is an in-memory category and transaction store.
type Store struct {
	mu           sync.RWMutex
	categories   map[string]*categoryDoc
	transactions map[string]domain.Transaction
	now          func() time.Time
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		categories:   make(map[string]*categoryDoc),
		transactions: make(map[string]domain.Transaction),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// NewRepositoryProvider wires a single store behind both repository facades.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CategoryRepo: store,
		LedgerRepo:   store,
	}
}

var (
	_ portsrepo.CategoryRepositoryFacade = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade   = (*Store)(nil)
)

func (s *Store) categoryFromDoc(doc *categoryDoc) (domain.Category, error) {
	balance, err := utils.ParseAmount(doc.amount)
	if err != nil {
		return domain.Category{}, apperrors.NewAppError(500, "stored balance for category "+doc.category.CategoryID+" is corrupt", err)
	}
	category := doc.category
	category.Balance = balance
	return category, nil
}

// SaveCategory persists a new category.
func (s *Store) SaveCategory(_ context.Context, category domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories[category.CategoryID] = &categoryDoc{
		category: category,
		amount:   utils.FormatAmount(category.Balance),
		version:  1,
	}
	return nil
}

// FindCategoryByID retrieves a category by its ID.
func (s *Store) FindCategoryByID(_ context.Context, categoryID string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.categories[categoryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	category, err := s.categoryFromDoc(doc)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// FindCategoriesByIDs retrieves multiple categories keyed by ID.
func (s *Store) FindCategoriesByIDs(_ context.Context, categoryIDs []string) (map[string]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make(map[string]domain.Category)
	for _, id := range categoryIDs {
		doc, ok := s.categories[id]
		if !ok {
			continue
		}
		category, err := s.categoryFromDoc(doc)
		if err != nil {
			return nil, err
		}
		categories[id] = category
	}
	return categories, nil
}

// ListCategories returns categories ordered by display row.
func (s *Store) ListCategories(_ context.Context, includeHidden bool) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var categories []domain.Category
	for _, doc := range s.categories {
		if !includeHidden && !doc.category.IsVisible {
			continue
		}
		category, err := s.categoryFromDoc(doc)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Row != categories[j].Row {
			return categories[i].Row < categories[j].Row
		}
		return categories[i].Title < categories[j].Title
	})
	return categories, nil
}

// balanceSnapshot captures one category's balance and version at read time.
type balanceSnapshot struct {
	balance decimal.Decimal
	version uint64
}

// SaveTransferPair runs the two-phase atomic unit: snapshot-read the declared
// read set, stage the writes, then commit only if no read document changed.
// A version mismatch at commit returns apperrors.ErrConflict with nothing
// applied; the caller retries the whole transfer.
func (s *Store) SaveTransferPair(_ context.Context, withdrawal domain.Transaction, deposit domain.Transaction, balanceChanges map[string]decimal.Decimal) (time.Time, error) {
	// Read phase: snapshot balances and versions.
	snapshots, err := s.snapshotBalances(balanceChanges)
	if err != nil {
		return time.Time{}, err
	}

	// Stage: compute new serialized balances through the codec round-trip.
	newAmounts := make(map[string]string, len(balanceChanges))
	for categoryID, delta := range balanceChanges {
		newAmounts[categoryID] = utils.FormatAmount(snapshots[categoryID].balance.Add(delta))
	}

	// Commit phase: verify the read set is unchanged, then apply everything.
	s.mu.Lock()
	defer s.mu.Unlock()

	for categoryID, snap := range snapshots {
		doc, ok := s.categories[categoryID]
		if !ok || doc.version != snap.version {
			return time.Time{}, apperrors.ErrConflict
		}
	}

	now := s.now()
	for categoryID, amount := range newAmounts {
		doc := s.categories[categoryID]
		doc.amount = amount
		doc.category.UpdatedAt = now
		doc.version++
	}

	withdrawal.Date = now
	deposit.Date = now
	s.transactions[withdrawal.TransactionID] = withdrawal
	s.transactions[deposit.TransactionID] = deposit

	return now, nil
}

func (s *Store) snapshotBalances(balanceChanges map[string]decimal.Decimal) (map[string]balanceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshots := make(map[string]balanceSnapshot, len(balanceChanges))
	for categoryID := range balanceChanges {
		doc, ok := s.categories[categoryID]
		if !ok {
			return nil, apperrors.ErrNotFound
		}
		balance, err := utils.ParseAmount(doc.amount)
		if err != nil {
			return nil, apperrors.NewAppError(500, "stored balance for category "+categoryID+" is corrupt", err)
		}
		snapshots[categoryID] = balanceSnapshot{balance: balance, version: doc.version}
	}
	return snapshots, nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (s *Store) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txn, ok := s.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

// FindTransactionsByRelatedID retrieves every transaction sharing the given
// relatedTransactionId.
func (s *Store) FindTransactionsByRelatedID(_ context.Context, relatedTransactionID string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var transactions []domain.Transaction
	for _, txn := range s.transactions {
		if txn.RelatedTransactionID == relatedTransactionID {
			transactions = append(transactions, txn)
		}
	}
	return transactions, nil
}

// DeleteTransactions removes the given transactions and applies the one
// balance adjustment as a single batch. Like the original batch write, there
// is no read-set conflict detection here, only all-or-nothing application.
func (s *Store) DeleteTransactions(_ context.Context, transactionIDs []string, adjustment *portsrepo.BalanceAdjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range transactionIDs {
		delete(s.transactions, id)
	}

	if adjustment != nil {
		if doc, ok := s.categories[adjustment.CategoryID]; ok {
			balance, err := utils.ParseAmount(doc.amount)
			if err != nil {
				return apperrors.NewAppError(500, "stored balance for category "+adjustment.CategoryID+" is corrupt", err)
			}
			doc.amount = utils.FormatAmount(balance.Add(adjustment.Delta))
			doc.category.UpdatedAt = s.now()
			doc.version++
		}
	}
	return nil
}

// ListTransactionsByCategoryID returns up to limit transactions for the
// category, newest first.
func (s *Store) ListTransactionsByCategoryID(_ context.Context, categoryID string, limit int) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var transactions []domain.Transaction
	for _, txn := range s.transactions {
		if txn.CategoryID == categoryID {
			transactions = append(transactions, txn)
		}
	}
	sort.Slice(transactions, func(i, j int) bool {
		if !transactions[i].Date.Equal(transactions[j].Date) {
			return transactions[i].Date.After(transactions[j].Date)
		}
		return transactions[i].TransactionID > transactions[j].TransactionID
	})
	if limit > 0 && len(transactions) > limit {
		transactions = transactions[:limit]
	}
	return transactions, nil
}
