package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

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

// categoryService provides administrative category operations. Balances are
// never mutated here; that is the ledger engine's job.
type categoryService struct {
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade) portssvc.CategorySvcFacade {
	return &categoryService{categoryRepo: categoryRepo}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

// CreateCategory creates a new category bucket.
func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*domain.Category, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: category title is required", apperrors.ErrValidation)
	}

	balance := decimal.Zero
	if req.InitialBalance != nil {
		balance = utils.NormalizeAmount(*req.InitialBalance)
	}

	isVisible := true
	if req.IsVisible != nil {
		isVisible = *req.IsVisible
	}

	now := time.Now().UTC()
	category := domain.Category{
		CategoryID: uuid.NewString(),
		Title:      title,
		Balance:    balance,
		Row:        req.Row,
		IsVisible:  isVisible,
		Color:      req.Color,
		IconName:   req.IconName,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		logger.Error("Failed to save category", slog.String("error", err.Error()), slog.String("title", title))
		return nil, fmt.Errorf("failed to save category: %w", err)
	}

	logger.Info("Category created", slog.String("category_id", category.CategoryID), slog.String("title", title))
	return &category, nil
}

// GetCategoryByID retrieves a single category.
func (s *categoryService) GetCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find category by ID", slog.String("error", err.Error()), slog.String("category_id", categoryID))
		}
		return nil, fmt.Errorf("failed to find category %s: %w", categoryID, err)
	}
	return category, nil
}

// ListCategories returns categories ordered by display row, hidden ones
// filtered out unless includeHidden is set.
func (s *categoryService) ListCategories(ctx context.Context, includeHidden bool) ([]domain.Category, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	categories, err := s.categoryRepo.ListCategories(ctx, includeHidden)
	if err != nil {
		logger.Error("Failed to list categories", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}
