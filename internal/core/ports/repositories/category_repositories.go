package repositories

import (
	"context"

	"github.com/hotwellkz/app66/internal/core/domain"
)

// CategoryRepositoryFacade defines persistence operations for categories.
// Balances are never written through this facade; only the ledger repository
// mutates them, inside the same atomic unit as the causing transaction writes.
type CategoryRepositoryFacade interface {
	// SaveCategory persists a new category.
	SaveCategory(ctx context.Context, category domain.Category) error

	// FindCategoryByID retrieves a category by its ID.
	// Returns apperrors.ErrNotFound if no such category exists.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// FindCategoriesByIDs retrieves multiple categories keyed by ID.
	// Missing IDs are simply absent from the returned map.
	FindCategoriesByIDs(ctx context.Context, categoryIDs []string) (map[string]domain.Category, error)

	// ListCategories returns categories ordered by their display row.
	// Hidden categories are filtered out unless includeHidden is set.
	ListCategories(ctx context.Context, includeHidden bool) ([]domain.Category, error)
}
