package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	minGoalYear = 2000
	maxGoalYear = 2100
)

// BudgetGoal is a spending ceiling for one month.
// A nil CategoryID makes it the overall goal for that month.
type BudgetGoal struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	CategoryID  *string         `json:"category_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewBudgetGoal(userID string, month, year int, categoryID *string, amount decimal.Decimal, description string) *BudgetGoal {
	now := time.Now().UTC()
	return &BudgetGoal{
		ID:          uuid.New().String(),
		UserID:      userID,
		Month:       month,
		Year:        year,
		CategoryID:  categoryID,
		Amount:      amount,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsOverall reports whether the goal covers all expense categories.
func (g *BudgetGoal) IsOverall() bool {
	return g.CategoryID == nil
}

func (g *BudgetGoal) Validate() error {
	ve := &ValidationError{}

	if g.Month < 1 || g.Month > 12 {
		ve.Add("month", "must be between 1 and 12")
	}
	if g.Year < minGoalYear || g.Year > maxGoalYear {
		ve.Add("year", "must be between 2000 and 2100")
	}
	checkAmount(ve, "amount", g.Amount)

	return ve.OrNil()
}
