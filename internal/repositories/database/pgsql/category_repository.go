package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hotwellkz/app66/internal/apperrors"
	"github.com/hotwellkz/app66/internal/core/domain"
	portsrepo "github.com/hotwellkz/app66/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxCategoryRepository struct {
	BaseRepository
}

// newPgxCategoryRepository creates a new repository for category data.
func newPgxCategoryRepository(pool *pgxpool.Pool) *PgxCategoryRepository {
	return &PgxCategoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxCategoryRepository implements portsrepo.CategoryRepositoryFacade
var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

const categoryColumns = `category_id, title, balance, display_row, is_visible, color, icon_name, created_at, updated_at`

func scanCategory(row pgx.Row) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(
		&c.CategoryID,
		&c.Title,
		&c.Balance,
		&c.Row,
		&c.IsVisible,
		&c.Color,
		&c.IconName,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

// SaveCategory persists a new category.
func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	query := `
		INSERT INTO categories (category_id, title, balance, display_row, is_visible, color, icon_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		category.CategoryID,
		category.Title,
		category.Balance,
		category.Row,
		category.IsVisible,
		category.Color,
		category.IconName,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert category "+category.CategoryID, err)
	}
	return nil
}

// FindCategoryByID retrieves a category by its ID.
func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = $1;`

	category, err := scanCategory(r.Pool.QueryRow(ctx, query, categoryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find category by ID "+categoryID, err)
	}
	return &category, nil
}

// FindCategoriesByIDs retrieves multiple categories keyed by ID. Missing IDs
// are absent from the returned map.
func (r *PgxCategoryRepository) FindCategoriesByIDs(ctx context.Context, categoryIDs []string) (map[string]domain.Category, error) {
	if len(categoryIDs) == 0 {
		return map[string]domain.Category{}, nil
	}

	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, categoryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query categories by IDs", err)
	}
	defer rows.Close()

	categories := make(map[string]domain.Category)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan category row", err)
		}
		categories[category.CategoryID] = category
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read category rows", err)
	}
	return categories, nil
}

// ListCategories returns categories ordered by display row.
func (r *PgxCategoryRepository) ListCategories(ctx context.Context, includeHidden bool) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if !includeHidden {
		query += ` WHERE is_visible`
	}
	query += ` ORDER BY display_row ASC, title ASC;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list categories", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan category row", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read category rows", err)
	}
	return categories, nil
}

// findCategoriesByIDsForUpdate retrieves categories by IDs and locks the rows
// for update. Must be called within a transaction. Rows are locked in
// ascending id order so concurrent transfers touching the same pair of
// categories cannot deadlock.
func (r *PgxCategoryRepository) findCategoriesByIDsForUpdate(ctx context.Context, tx pgx.Tx, categoryIDs []string) (map[string]domain.Category, error) {
	if len(categoryIDs) == 0 {
		return map[string]domain.Category{}, nil
	}

	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE category_id = ANY($1)
		ORDER BY category_id
		FOR UPDATE;
	`

	rows, err := tx.Query(ctx, query, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories for update: %w", classifyTxError(err))
	}
	defer rows.Close()

	categories := make(map[string]domain.Category)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked category row: %w", err)
		}
		categories[category.CategoryID] = category
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read locked category rows: %w", classifyTxError(err))
	}
	return categories, nil
}

// updateCategoryBalancesInTx writes new absolute balances within a transaction.
func (r *PgxCategoryRepository) updateCategoryBalancesInTx(ctx context.Context, tx pgx.Tx, newBalances map[string]decimal.Decimal, now time.Time) error {
	query := `
		UPDATE categories
		SET balance = $2, updated_at = $3
		WHERE category_id = $1;
	`

	for categoryID, balance := range newBalances {
		ct, err := tx.Exec(ctx, query, categoryID, balance, now)
		if err != nil {
			return fmt.Errorf("failed to update balance for category %s: %w", categoryID, classifyTxError(err))
		}
		if ct.RowsAffected() == 0 {
			// Should not happen for rows we hold locks on.
			return fmt.Errorf("%w: category %s disappeared during balance update", apperrors.ErrNotFound, categoryID)
		}
	}
	return nil
}
