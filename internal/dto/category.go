package dto

import (
	"time"

	"github.com/hotwellkz/app66/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest defines the payload for creating a category.
// Creation is administrative; the ledger engine only ever mutates balances.
type CreateCategoryRequest struct {
	Title          string           `json:"title" binding:"required"`
	InitialBalance *decimal.Decimal `json:"initialBalance"`
	Row            int              `json:"row"`
	IsVisible      *bool            `json:"isVisible"`
	Color          string           `json:"color"`
	IconName       string           `json:"iconName"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID string          `json:"categoryID"`
	Title      string          `json:"title"`
	Balance    decimal.Decimal `json:"balance"`
	Row        int             `json:"row"`
	IsVisible  bool            `json:"isVisible"`
	Color      string          `json:"color"`
	IconName   string          `json:"iconName"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// ToCategoryResponse converts a domain.Category to CategoryResponse DTO.
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID: c.CategoryID,
		Title:      c.Title,
		Balance:    c.Balance,
		Row:        c.Row,
		IsVisible:  c.IsVisible,
		Color:      c.Color,
		IconName:   c.IconName,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of domain.Category to []CategoryResponse.
func ToCategoryResponses(categories []domain.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}
