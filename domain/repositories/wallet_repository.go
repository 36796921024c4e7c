package repositories

import (
	"context"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/shopspring/decimal"
)

// WalletRepository defines the interface for wallet data access.
// Every method is scoped to userID; wallets of other users are reported as models.ErrWalletNotFound.
type WalletRepository interface {
	// FindByID finds a wallet by ID
	FindByID(ctx context.Context, userID, id string) (*models.Wallet, error)

	// FindByName finds a wallet by its exact name
	FindByName(ctx context.Context, userID, name string) (*models.Wallet, error)

	// FindAll finds all wallets with optional filters
	FindAll(ctx context.Context, filter WalletFilter) ([]*models.Wallet, error)

	// Create creates a new wallet
	Create(ctx context.Context, wallet *models.Wallet) error

	// Update updates the descriptive fields of a wallet; the balance is left untouched
	Update(ctx context.Context, wallet *models.Wallet) error

	// Delete deletes a wallet by ID together with its transactions
	Delete(ctx context.Context, userID, id string) error

	// UpdateBalance adds delta to the wallet balance with a relative update
	UpdateBalance(ctx context.Context, userID, id string, delta decimal.Decimal) error

	// Withdraw subtracts amount only if the balance covers it, otherwise models.ErrInsufficientFunds
	Withdraw(ctx context.Context, userID, id string, amount decimal.Decimal) error

	// TotalBalance sums the balances of all the user's wallets
	TotalBalance(ctx context.Context, userID string) (decimal.Decimal, error)

	// Count returns the number of wallets owned by the user
	Count(ctx context.Context, userID string) (int64, error)
}

// WalletFilter defines filters for finding wallets
type WalletFilter struct {
	UserID     string
	Type       models.WalletType
	Currency   string
	NameLike   string
	ActiveOnly bool
	Limit      int
	Offset     int
	SortBy     string
	SortOrder  string
}
