package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// openTestDatabase opens a migrated ledger database under t.TempDir().
func openTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "ledger.db"), Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func mustCreateWallet(t *testing.T, repo *WalletRepository, userID, name, opening string) *models.Wallet {
	t.Helper()

	wallet := models.NewWallet(userID, name, "", "PHP", models.WalletTypeCash, decimal.RequireFromString(opening))
	require.NoError(t, repo.Create(context.Background(), wallet))
	return wallet
}

func mustCreateCategory(t *testing.T, repo *CategoryRepository, userID, name string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := models.NewCategory(userID, name, "", categoryType, "", decimal.Zero)
	require.NoError(t, repo.Create(context.Background(), category))
	return category
}

func mustCreateTransaction(t *testing.T, repo *TransactionRepository, userID string, wallet *models.Wallet, category *models.Category, amount string, txType models.TransactionType, date string) *models.Transaction {
	t.Helper()

	day, err := models.ParseDate(date)
	require.NoError(t, err)

	var categoryID *string
	if category != nil {
		id := category.ID
		categoryID = &id
	}

	tx := models.NewTransaction(userID, wallet.ID, categoryID, decimal.RequireFromString(amount), txType, day, "")
	require.NoError(t, repo.Create(context.Background(), tx))
	return tx
}

func date(t *testing.T, s string) time.Time {
	t.Helper()

	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}
