package repositories

import (
	"context"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/shopspring/decimal"
)

// CategoryRepository defines the interface for category data access.
// Reads return the user's own categories and shared ones; writes only touch owned rows.
type CategoryRepository interface {
	// FindByID finds a category visible to the user
	FindByID(ctx context.Context, userID, id string) (*models.Category, error)

	// FindAll finds all categories with optional filters
	FindAll(ctx context.Context, filter CategoryFilter) ([]*models.Category, error)

	// Create creates a new category
	Create(ctx context.Context, category *models.Category) error

	// Update updates an owned category
	Update(ctx context.Context, category *models.Category) error

	// Delete deletes an owned category; models.ErrCategoryInUse if transactions reference it
	Delete(ctx context.Context, userID, id string) error

	// CountTransactions counts the user's transactions filed under the category
	CountTransactions(ctx context.Context, userID, id string) (int64, error)

	// CountPlans counts the user's budget goals and recurring bills tied to the category
	CountPlans(ctx context.Context, userID, id string) (int64, error)

	// SumMonthlyBudgets sums monthly_budget over visible expense categories that have one
	SumMonthlyBudgets(ctx context.Context, userID string) (decimal.Decimal, error)

	// Count returns the number of categories visible to the user
	Count(ctx context.Context, userID string) (int64, error)
}

// CategoryFilter defines filters for finding categories
type CategoryFilter struct {
	UserID    string
	Type      models.CategoryType
	NameLike  string
	OwnedOnly bool
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}
