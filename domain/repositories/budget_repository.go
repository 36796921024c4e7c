package repositories

import (
	"context"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
)

// BudgetGoalRepository defines the interface for budget goal data access
type BudgetGoalRepository interface {
	FindByID(ctx context.Context, userID, id string) (*models.BudgetGoal, error)

	// FindFor finds the goal for (month, year, category); a nil category selects the overall goal
	FindFor(ctx context.Context, userID string, month, year int, categoryID *string) (*models.BudgetGoal, error)

	FindAll(ctx context.Context, filter BudgetGoalFilter) ([]*models.BudgetGoal, error)

	// Create creates a goal; models.ErrDuplicate if one exists for the same tuple
	Create(ctx context.Context, goal *models.BudgetGoal) error

	Update(ctx context.Context, goal *models.BudgetGoal) error

	Delete(ctx context.Context, userID, id string) error
}

// BudgetGoalFilter defines filters for finding budget goals
type BudgetGoalFilter struct {
	UserID     string
	Month      int
	Year       int
	CategoryID string
}

// RecurringBillRepository defines the interface for recurring bill data access
type RecurringBillRepository interface {
	FindByID(ctx context.Context, userID, id string) (*models.RecurringBill, error)

	FindByName(ctx context.Context, userID, name string) (*models.RecurringBill, error)

	// FindAll returns bills ordered by due day, then name
	FindAll(ctx context.Context, filter RecurringBillFilter) ([]*models.RecurringBill, error)

	Create(ctx context.Context, bill *models.RecurringBill) error

	Update(ctx context.Context, bill *models.RecurringBill) error

	Delete(ctx context.Context, userID, id string) error
}

// RecurringBillFilter defines filters for finding recurring bills
type RecurringBillFilter struct {
	UserID     string
	ActiveOnly bool
}
