package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryType defines the type of category
type CategoryType string

const (
	// CategoryTypeIncome represents an income category
	CategoryTypeIncome CategoryType = "income"

	// CategoryTypeExpense represents an expense category
	CategoryTypeExpense CategoryType = "expense"
)

// IsValid reports whether t is a known category type.
func (t CategoryType) IsValid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category represents a transaction category.
// A nil UserID marks a shared category visible to every user.
type Category struct {
	ID            string          `json:"id"`
	UserID        *string         `json:"user_id,omitempty"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Type          CategoryType    `json:"type"`
	Color         string          `json:"color"`
	MonthlyBudget decimal.Decimal `json:"monthly_budget"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewCategory creates a new category owned by userID
func NewCategory(userID, name, description string, categoryType CategoryType, color string, monthlyBudget decimal.Decimal) *Category {
	now := time.Now().UTC()
	owner := userID
	return &Category{
		ID:            uuid.New().String(),
		UserID:        &owner,
		Name:          strings.TrimSpace(name),
		Description:   description,
		Type:          categoryType,
		Color:         color,
		MonthlyBudget: monthlyBudget,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NewSharedCategory creates a category without an owner
func NewSharedCategory(name, description string, categoryType CategoryType, color string) *Category {
	category := NewCategory("", name, description, categoryType, color, decimal.Zero)
	category.UserID = nil
	return category
}

// IsShared reports whether the category has no owner.
func (c *Category) IsShared() bool {
	return c.UserID == nil
}

// Validate checks if the category is valid
func (c *Category) Validate() error {
	ve := &ValidationError{}

	checkName(ve, "name", c.Name)

	if !c.Type.IsValid() {
		ve.Add("type", "must be one of income, expense")
	}

	checkNonNegative(ve, "monthly_budget", c.MonthlyBudget)
	if c.Type == CategoryTypeIncome && !c.MonthlyBudget.IsZero() {
		ve.Add("monthly_budget", "income categories cannot have a monthly budget")
	}

	return ve.OrNil()
}

// MatchesTransactionType checks if the category type matches the transaction type
func (c *Category) MatchesTransactionType(txType TransactionType) bool {
	switch txType {
	case TransactionTypeIncome:
		return c.Type == CategoryTypeIncome
	case TransactionTypeExpense:
		return c.Type == CategoryTypeExpense
	default:
		return false
	}
}

// DefaultCategories returns the starter set offered to new users.
func DefaultCategories() []*Category {
	defaults := []struct {
		name, description, color string
		kind                     CategoryType
	}{
		{"Salary", "Regular employment income", "#4CAF50", CategoryTypeIncome},
		{"Investment", "Income from investments", "#2196F3", CategoryTypeIncome},
		{"Other Income", "Miscellaneous income", "#9C27B0", CategoryTypeIncome},
		{"Housing", "Rent, mortgage, and housing expenses", "#F44336", CategoryTypeExpense},
		{"Transportation", "Car, public transport, and travel expenses", "#FF9800", CategoryTypeExpense},
		{"Food", "Groceries and dining out", "#795548", CategoryTypeExpense},
		{"Utilities", "Electricity, water, internet, etc.", "#607D8B", CategoryTypeExpense},
		{"Healthcare", "Medical and health-related expenses", "#E91E63", CategoryTypeExpense},
		{"Entertainment", "Movies, games, and leisure", "#673AB7", CategoryTypeExpense},
		{"Shopping", "Clothing and general purchases", "#FFC107", CategoryTypeExpense},
		{"Education", "Tuition, books, and courses", "#3F51B5", CategoryTypeExpense},
		{"Other Expenses", "Miscellaneous expenses", "#9E9E9E", CategoryTypeExpense},
	}

	out := make([]*Category, 0, len(defaults))
	for _, d := range defaults {
		out = append(out, NewSharedCategory(d.name, d.description, d.kind, d.color))
	}
	return out
}
