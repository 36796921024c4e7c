package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurringBill is a monthly expected expense due on DueDay.
type RecurringBill struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	DueDay     int             `json:"due_day"`
	CategoryID *string         `json:"category_id,omitempty"`
	IsActive   bool            `json:"is_active"`
	Notes      string          `json:"notes"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// NewRecurringBill creates an active bill with a fresh ID.
func NewRecurringBill(userID, name string, amount decimal.Decimal, dueDay int, categoryID *string, notes string) *RecurringBill {
	now := time.Now().UTC()
	return &RecurringBill{
		ID:         uuid.New().String(),
		UserID:     userID,
		Name:       strings.TrimSpace(name),
		Amount:     amount,
		DueDay:     dueDay,
		CategoryID: categoryID,
		IsActive:   true,
		Notes:      notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate checks the bill fields and returns a *ValidationError listing every problem.
func (b *RecurringBill) Validate() error {
	ve := &ValidationError{}

	checkName(ve, "name", b.Name)
	checkAmount(ve, "amount", b.Amount)
	if b.DueDay < 1 || b.DueDay > 31 {
		ve.Add("due_day", "must be between 1 and 31")
	}

	return ve.OrNil()
}

// DueDateIn returns the bill's due date in the given month.
// ok is false when the month has no such day (day 30 in February).
func (b *RecurringBill) DueDateIn(year int, month time.Month) (time.Time, bool) {
	due := time.Date(year, month, b.DueDay, 0, 0, 0, 0, time.UTC)
	if due.Month() != month {
		return time.Time{}, false
	}
	return due, true
}
