package services

import (
	"context"

	"github.com/hotwellkz/app66/internal/core/domain"
	"github.com/hotwellkz/app66/internal/dto"
)

// CategorySvcFacade defines category operations exposed to callers.
type CategorySvcFacade interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*domain.Category, error)
	GetCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)
	ListCategories(ctx context.Context, includeHidden bool) ([]domain.Category, error)
}
