package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category represents a named balance bucket (wallet/budget line).
// Balance is a cached value; outside an in-flight transfer it always equals
// the signed sum of the amounts of the transactions referencing this category.
type Category struct {
	CategoryID string          `json:"categoryID"` // Primary Key (UUID)
	Title      string          `json:"title"`      // Display name
	Balance    decimal.Decimal `json:"balance"`    // Cached balance; mutated only by the ledger engine
	Row        int             `json:"row"`        // Display ordering, presentation only
	IsVisible  bool            `json:"isVisible"`  // Hidden categories are filtered from listings
	Color      string          `json:"color"`      // Presentation metadata
	IconName   string          `json:"iconName"`   // Presentation metadata
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
