package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/ZanzyTHEbar/spendr-go/domain/repositories"
	"github.com/pocketbase/dbx"
	"github.com/shopspring/decimal"
)

// walletRow mirrors the wallets table
type walletRow struct {
	ID                  string `db:"id"`
	UserID              string `db:"user_id"`
	Name                string `db:"name"`
	Description         string `db:"description"`
	BalanceCents        int64  `db:"balance_cents"`
	OpeningBalanceCents int64  `db:"opening_balance_cents"`
	Currency            string `db:"currency"`
	Type                string `db:"type"`
	IsActive            bool   `db:"is_active"`
	CreatedAt           string `db:"created_at"`
	UpdatedAt           string `db:"updated_at"`
}

var walletSortColumns = map[string]bool{"name": true, "balance_cents": true, "created_at": true, "currency": true}

// WalletRepository is a SQLite implementation of the WalletRepository interface
type WalletRepository struct {
	db *dbx.DB
}

// NewWalletRepository creates a new SQLite wallet repository
func NewWalletRepository(db *dbx.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// FindByID finds a wallet by ID
func (r *WalletRepository) FindByID(ctx context.Context, userID, id string) (*models.Wallet, error) {
	var row walletRow
	err := builder(ctx, r.db).Select().From("wallets").
		Where(dbx.HashExp{"id": id, "user_id": userID}).
		WithContext(ctx).
		One(&row)
	if err != nil {
		return nil, notFound(err, models.ErrWalletNotFound)
	}
	return mapRowToWallet(row), nil
}

// FindByName finds a wallet by its exact name
func (r *WalletRepository) FindByName(ctx context.Context, userID, name string) (*models.Wallet, error) {
	var row walletRow
	err := builder(ctx, r.db).Select().From("wallets").
		Where(dbx.HashExp{"name": name, "user_id": userID}).
		WithContext(ctx).
		One(&row)
	if err != nil {
		return nil, notFound(err, models.ErrWalletNotFound)
	}
	return mapRowToWallet(row), nil
}

// FindAll finds all wallets with optional filters
func (r *WalletRepository) FindAll(ctx context.Context, filter repositories.WalletFilter) ([]*models.Wallet, error) {
	query := builder(ctx, r.db).Select().From("wallets").
		Where(dbx.HashExp{"user_id": filter.UserID})

	// Apply filters
	if filter.Type != "" {
		query = query.AndWhere(dbx.HashExp{"type": string(filter.Type)})
	}

	if filter.Currency != "" {
		query = query.AndWhere(dbx.HashExp{"currency": filter.Currency})
	}

	if filter.NameLike != "" {
		query = query.AndWhere(dbx.NewExp("name LIKE {:name}", dbx.Params{"name": "%" + filter.NameLike + "%"}))
	}

	if filter.ActiveOnly {
		query = query.AndWhere(dbx.HashExp{"is_active": true})
	}

	query = query.OrderBy(orderBy(filter.SortBy, filter.SortOrder, walletSortColumns, "name ASC"), "id ASC")

	if filter.Limit > 0 {
		query = query.Limit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(int64(filter.Offset))
	}

	var rows []walletRow
	if err := query.WithContext(ctx).All(&rows); err != nil {
		return nil, fmt.Errorf("failed to find wallets: %w", err)
	}

	wallets := make([]*models.Wallet, 0, len(rows))
	for _, row := range rows {
		wallets = append(wallets, mapRowToWallet(row))
	}
	return wallets, nil
}

// Create creates a new wallet
func (r *WalletRepository) Create(ctx context.Context, wallet *models.Wallet) error {
	_, err := builder(ctx, r.db).Insert("wallets", dbx.Params{
		"id":                    wallet.ID,
		"user_id":               wallet.UserID,
		"name":                  wallet.Name,
		"description":           wallet.Description,
		"balance_cents":         models.ToCents(wallet.Balance),
		"opening_balance_cents": models.ToCents(wallet.OpeningBalance),
		"currency":              wallet.Currency,
		"type":                  string(wallet.Type),
		"is_active":             wallet.IsActive,
		"created_at":            formatTimestamp(wallet.CreatedAt),
		"updated_at":            formatTimestamp(wallet.UpdatedAt),
	}).WithContext(ctx).Execute()
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("wallet %q: %w", wallet.Name, models.ErrDuplicate)
		}
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

// Update updates the descriptive fields of a wallet
func (r *WalletRepository) Update(ctx context.Context, wallet *models.Wallet) error {
	wallet.UpdatedAt = time.Now().UTC()
	res, err := builder(ctx, r.db).Update("wallets", dbx.Params{
		"name":        wallet.Name,
		"description": wallet.Description,
		"currency":    wallet.Currency,
		"type":        string(wallet.Type),
		"is_active":   wallet.IsActive,
		"updated_at":  formatTimestamp(wallet.UpdatedAt),
	}, dbx.HashExp{"id": wallet.ID, "user_id": wallet.UserID}).WithContext(ctx).Execute()
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("wallet %q: %w", wallet.Name, models.ErrDuplicate)
		}
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	return affected(res, models.ErrWalletNotFound)
}

// Delete deletes a wallet by ID; its transactions go with it
func (r *WalletRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := builder(ctx, r.db).Delete("wallets", dbx.HashExp{"id": id, "user_id": userID}).
		WithContext(ctx).Execute()
	if err != nil {
		return fmt.Errorf("failed to delete wallet: %w", err)
	}
	return affected(res, models.ErrWalletNotFound)
}

// UpdateBalance adds delta to the stored balance without reading it first
func (r *WalletRepository) UpdateBalance(ctx context.Context, userID, id string, delta decimal.Decimal) error {
	res, err := builder(ctx, r.db).NewQuery(
		"UPDATE wallets SET balance_cents = balance_cents + {:delta}, updated_at = {:now} WHERE id = {:id} AND user_id = {:user}",
	).Bind(dbx.Params{
		"delta": models.ToCents(delta),
		"now":   formatTimestamp(time.Now()),
		"id":    id,
		"user":  userID,
	}).WithContext(ctx).Execute()
	if err != nil {
		return fmt.Errorf("failed to update wallet balance: %w", err)
	}
	return affected(res, models.ErrWalletNotFound)
}

// Withdraw subtracts amount in a single conditional update so two concurrent
// withdrawals can never both pass the balance check.
func (r *WalletRepository) Withdraw(ctx context.Context, userID, id string, amount decimal.Decimal) error {
	cents := models.ToCents(amount)
	res, err := builder(ctx, r.db).NewQuery(
		"UPDATE wallets SET balance_cents = balance_cents - {:amount}, updated_at = {:now} WHERE id = {:id} AND user_id = {:user} AND balance_cents >= {:amount}",
	).Bind(dbx.Params{
		"amount": cents,
		"now":    formatTimestamp(time.Now()),
		"id":     id,
		"user":   userID,
	}).WithContext(ctx).Execute()
	if err != nil {
		return fmt.Errorf("failed to withdraw from wallet: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to withdraw from wallet: %w", err)
	}
	if n == 0 {
		if _, err := r.FindByID(ctx, userID, id); err != nil {
			return err
		}
		return models.ErrInsufficientFunds
	}
	return nil
}

// TotalBalance sums the balances of all the user's wallets
func (r *WalletRepository) TotalBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	var total int64
	err := builder(ctx, r.db).NewQuery("SELECT COALESCE(SUM(balance_cents), 0) FROM wallets WHERE user_id = {:user}").
		Bind(dbx.Params{"user": userID}).
		WithContext(ctx).
		Row(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum wallet balances: %w", err)
	}
	return models.FromCents(total), nil
}

// Count returns the number of wallets owned by the user
func (r *WalletRepository) Count(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := builder(ctx, r.db).NewQuery("SELECT COUNT(*) FROM wallets WHERE user_id = {:user}").
		Bind(dbx.Params{"user": userID}).
		WithContext(ctx).
		Row(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count wallets: %w", err)
	}
	return n, nil
}

func mapRowToWallet(row walletRow) *models.Wallet {
	return &models.Wallet{
		ID:             row.ID,
		UserID:         row.UserID,
		Name:           row.Name,
		Description:    row.Description,
		Balance:        models.FromCents(row.BalanceCents),
		OpeningBalance: models.FromCents(row.OpeningBalanceCents),
		Currency:       row.Currency,
		Type:           models.WalletType(row.Type),
		IsActive:       row.IsActive,
		CreatedAt:      parseTimestamp(row.CreatedAt),
		UpdatedAt:      parseTimestamp(row.UpdatedAt),
	}
}
