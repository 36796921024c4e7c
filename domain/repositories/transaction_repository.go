package repositories

import (
	"context"
	"time"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/shopspring/decimal"
)

// TransactionRepository defines the interface for transaction data access
type TransactionRepository interface {
	// FindByID finds a transaction by ID
	FindByID(ctx context.Context, userID, id string) (*models.Transaction, error)

	// FindAll finds all transactions with optional filters
	FindAll(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, error)

	// Create creates a new transaction
	Create(ctx context.Context, transaction *models.Transaction) error

	// Update updates an existing transaction
	Update(ctx context.Context, transaction *models.Transaction) error

	// Delete deletes a transaction by ID
	Delete(ctx context.Context, userID, id string) error

	// Link points the transaction at its paired transfer leg, or clears the link when relatedID is nil
	Link(ctx context.Context, userID, id string, relatedID *string) error

	// SumByType totals income and expense amounts dated within [from, to]
	SumByType(ctx context.Context, userID string, from, to time.Time) (income, expense decimal.Decimal, err error)

	// SumByCategory totals expense amounts per category dated within [from, to]
	SumByCategory(ctx context.Context, userID string, from, to time.Time) (map[string]decimal.Decimal, error)

	// Count counts the user's transactions dated within [from, to]
	Count(ctx context.Context, userID string, from, to time.Time) (int64, error)

	// MonthlyTotals groups income and expense by calendar month, oldest first
	MonthlyTotals(ctx context.Context, userID string) ([]MonthlyTotal, error)

	// LedgerSum returns Σincome − Σexpense over the wallet's transactions
	LedgerSum(ctx context.Context, userID, walletID string) (decimal.Decimal, error)
}

// TransactionFilter defines filters for finding transactions.
// Zero values disable a filter; DateFrom and DateTo are inclusive.
type TransactionFilter struct {
	UserID      string
	WalletID    string
	CategoryID  string
	Type        models.TransactionType
	DateFrom    time.Time
	DateTo      time.Time
	Description string
	LinkedOnly  bool
	Limit       int
	Offset      int
	SortBy      string
	SortOrder   string
}

// MonthlyTotal is one row of the monthly income/expense summary.
type MonthlyTotal struct {
	Month   string
	Income  decimal.Decimal
	Expense decimal.Decimal
}
