package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewCategory(t *testing.T) {
	name := "Test Category"
	description := "A category for testing"
	categoryType := CategoryTypeExpense
	color := "#FFFFFF"

	cat := NewCategory("user-1", name, description, categoryType, color, decimal.RequireFromString("300"))

	if cat.ID == "" {
		t.Error("Expected new category to have an ID, but it was empty")
	}
	if cat.Name != name {
		t.Errorf("Expected category name to be '%s', but got '%s'", name, cat.Name)
	}
	if cat.Type != categoryType {
		t.Errorf("Expected category type to be '%s', but got '%s'", categoryType, cat.Type)
	}
	if cat.IsShared() {
		t.Error("Expected an owned category, but it was shared")
	}
	if cat.UserID == nil || *cat.UserID != "user-1" {
		t.Errorf("Expected owner 'user-1', got %v", cat.UserID)
	}
}

func TestNewSharedCategory(t *testing.T) {
	cat := NewSharedCategory("Food", "", CategoryTypeExpense, "")
	if !cat.IsShared() {
		t.Error("Expected shared category to have no owner")
	}
}

func TestCategory_Validate(t *testing.T) {
	tests := []struct {
		name      string
		category  *Category
		expectErr bool
		field     string
	}{
		{
			name:     "Valid Expense Category",
			category: NewCategory("u", "Groceries", "", CategoryTypeExpense, "", decimal.RequireFromString("300")),
		},
		{
			name:     "Valid Income Category",
			category: NewCategory("u", "Salary", "", CategoryTypeIncome, "", decimal.Zero),
		},
		{
			name:      "Missing Name",
			category:  NewCategory("u", "", "", CategoryTypeIncome, "", decimal.Zero),
			expectErr: true,
			field:     "name",
		},
		{
			name:      "Invalid Type",
			category:  NewCategory("u", "Salary", "", "transfer", "", decimal.Zero),
			expectErr: true,
			field:     "type",
		},
		{
			name:      "Negative Monthly Budget",
			category:  NewCategory("u", "Food", "", CategoryTypeExpense, "", decimal.RequireFromString("-1")),
			expectErr: true,
			field:     "monthly_budget",
		},
		{
			name:      "Income With Monthly Budget",
			category:  NewCategory("u", "Salary", "", CategoryTypeIncome, "", decimal.RequireFromString("100")),
			expectErr: true,
			field:     "monthly_budget",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.category.Validate()
			hasErr := err != nil

			if hasErr != tt.expectErr {
				t.Errorf("Validate() error = %v, expectErr %v", err, tt.expectErr)
				return
			}

			if tt.expectErr {
				var ve *ValidationError
				if !errors.As(err, &ve) || !ve.Has(tt.field) {
					t.Errorf("Validate() error = %v, want a problem on '%s'", err, tt.field)
				}
			}
		})
	}
}

func TestCategory_MatchesTransactionType(t *testing.T) {
	income := NewCategory("u", "Salary", "", CategoryTypeIncome, "", decimal.Zero)
	expense := NewCategory("u", "Food", "", CategoryTypeExpense, "", decimal.Zero)

	if !income.MatchesTransactionType(TransactionTypeIncome) {
		t.Error("Expected income category to match income transactions")
	}
	if income.MatchesTransactionType(TransactionTypeExpense) {
		t.Error("Expected income category not to match expense transactions")
	}
	if !expense.MatchesTransactionType(TransactionTypeExpense) {
		t.Error("Expected expense category to match expense transactions")
	}
	if expense.MatchesTransactionType(TransactionTypeTransfer) {
		t.Error("Expected no category to match transfer transactions")
	}
}

func TestDefaultCategories(t *testing.T) {
	defaults := DefaultCategories()
	if len(defaults) == 0 {
		t.Fatal("Expected a default category set")
	}
	for _, c := range defaults {
		if err := c.Validate(); err != nil {
			t.Errorf("Default category %s is invalid: %v", c.Name, err)
		}
	}
}
