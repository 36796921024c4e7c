package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/ZanzyTHEbar/spendr-go/domain/repositories"
	"github.com/pocketbase/dbx"
	"github.com/shopspring/decimal"
)

// transactionRow mirrors the transactions table
type transactionRow struct {
	ID                   string         `db:"id"`
	UserID               string         `db:"user_id"`
	WalletID             string         `db:"wallet_id"`
	CategoryID           sql.NullString `db:"category_id"`
	RelatedTransactionID sql.NullString `db:"related_transaction_id"`
	AmountCents          int64          `db:"amount_cents"`
	Type                 string         `db:"type"`
	Date                 string         `db:"date"`
	Description          string         `db:"description"`
	CreatedAt            string         `db:"created_at"`
	UpdatedAt            string         `db:"updated_at"`
}

var transactionSortColumns = map[string]bool{"date": true, "amount_cents": true, "created_at": true, "type": true}

// TransactionRepository is a SQLite implementation of the TransactionRepository interface
type TransactionRepository struct {
	db *dbx.DB
}

// NewTransactionRepository creates a new SQLite transaction repository
func NewTransactionRepository(db *dbx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// FindByID finds a transaction by ID
func (r *TransactionRepository) FindByID(ctx context.Context, userID, id string) (*models.Transaction, error) {
	var row transactionRow
	err := builder(ctx, r.db).Select().From("transactions").
		Where(dbx.HashExp{"id": id, "user_id": userID}).
		WithContext(ctx).
		One(&row)
	if err != nil {
		return nil, notFound(err, models.ErrTransactionNotFound)
	}
	return mapRowToTransaction(row), nil
}

// FindAll finds all transactions with optional filters, newest first by default
func (r *TransactionRepository) FindAll(ctx context.Context, filter repositories.TransactionFilter) ([]*models.Transaction, error) {
	query := builder(ctx, r.db).Select().From("transactions").
		Where(dbx.HashExp{"user_id": filter.UserID})

	// Apply filters
	if filter.WalletID != "" {
		query = query.AndWhere(dbx.HashExp{"wallet_id": filter.WalletID})
	}

	if filter.CategoryID != "" {
		query = query.AndWhere(dbx.HashExp{"category_id": filter.CategoryID})
	}

	if filter.Type != "" {
		query = query.AndWhere(dbx.HashExp{"type": string(filter.Type)})
	}

	if !filter.DateFrom.IsZero() {
		query = query.AndWhere(dbx.NewExp("date >= {:from}", dbx.Params{"from": formatDate(filter.DateFrom)}))
	}

	if !filter.DateTo.IsZero() {
		query = query.AndWhere(dbx.NewExp("date <= {:to}", dbx.Params{"to": formatDate(filter.DateTo)}))
	}

	if filter.Description != "" {
		query = query.AndWhere(dbx.NewExp("description LIKE {:desc}", dbx.Params{"desc": "%" + filter.Description + "%"}))
	}

	if filter.LinkedOnly {
		query = query.AndWhere(dbx.NewExp("related_transaction_id IS NOT NULL"))
	}

	if filter.SortBy != "" {
		query = query.OrderBy(orderBy(filter.SortBy, filter.SortOrder, transactionSortColumns, "date DESC"), "id ASC")
	} else {
		query = query.OrderBy("date DESC", "created_at DESC", "id DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(int64(filter.Offset))
	}

	var rows []transactionRow
	if err := query.WithContext(ctx).All(&rows); err != nil {
		return nil, fmt.Errorf("failed to find transactions: %w", err)
	}

	transactions := make([]*models.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, mapRowToTransaction(row))
	}
	return transactions, nil
}

// Create creates a new transaction
func (r *TransactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	_, err := builder(ctx, r.db).Insert("transactions", dbx.Params{
		"id":                     transaction.ID,
		"user_id":                transaction.UserID,
		"wallet_id":              transaction.WalletID,
		"category_id":            nullString(transaction.CategoryID),
		"related_transaction_id": nullString(transaction.RelatedTransactionID),
		"amount_cents":           models.ToCents(transaction.Amount),
		"type":                   string(transaction.Type),
		"date":                   formatDate(transaction.Date),
		"description":            transaction.Description,
		"created_at":             formatTimestamp(transaction.CreatedAt),
		"updated_at":             formatTimestamp(transaction.UpdatedAt),
	}).WithContext(ctx).Execute()
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// Update updates an existing transaction
func (r *TransactionRepository) Update(ctx context.Context, transaction *models.Transaction) error {
	transaction.UpdatedAt = time.Now().UTC()
	res, err := builder(ctx, r.db).Update("transactions", dbx.Params{
		"wallet_id":              transaction.WalletID,
		"category_id":            nullString(transaction.CategoryID),
		"related_transaction_id": nullString(transaction.RelatedTransactionID),
		"amount_cents":           models.ToCents(transaction.Amount),
		"type":                   string(transaction.Type),
		"date":                   formatDate(transaction.Date),
		"description":            transaction.Description,
		"updated_at":             formatTimestamp(transaction.UpdatedAt),
	}, dbx.HashExp{"id": transaction.ID, "user_id": transaction.UserID}).WithContext(ctx).Execute()
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return affected(res, models.ErrTransactionNotFound)
}

// Delete deletes a transaction by ID
func (r *TransactionRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := builder(ctx, r.db).Delete("transactions", dbx.HashExp{"id": id, "user_id": userID}).
		WithContext(ctx).Execute()
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return affected(res, models.ErrTransactionNotFound)
}

// Link points the transaction at its paired transfer leg
func (r *TransactionRepository) Link(ctx context.Context, userID, id string, relatedID *string) error {
	res, err := builder(ctx, r.db).Update("transactions", dbx.Params{
		"related_transaction_id": nullString(relatedID),
		"updated_at":             formatTimestamp(time.Now()),
	}, dbx.HashExp{"id": id, "user_id": userID}).WithContext(ctx).Execute()
	if err != nil {
		return fmt.Errorf("failed to link transaction: %w", err)
	}
	return affected(res, models.ErrTransactionNotFound)
}

// SumByType totals income and expense amounts dated within [from, to]
func (r *TransactionRepository) SumByType(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	var income, expense int64
	err := builder(ctx, r.db).NewQuery(`
		SELECT
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END), 0)
		FROM transactions
		WHERE user_id = {:user} AND date >= {:from} AND date <= {:to}`,
	).Bind(dbx.Params{
		"user": userID,
		"from": formatDate(from),
		"to":   formatDate(to),
	}).WithContext(ctx).Row(&income, &expense)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return models.FromCents(income), models.FromCents(expense), nil
}

type categoryTotalRow struct {
	CategoryID string `db:"category_id"`
	Total      int64  `db:"total"`
}

// SumByCategory totals expense amounts per category dated within [from, to]
func (r *TransactionRepository) SumByCategory(ctx context.Context, userID string, from, to time.Time) (map[string]decimal.Decimal, error) {
	var rows []categoryTotalRow
	err := builder(ctx, r.db).NewQuery(`
		SELECT category_id, SUM(amount_cents) AS total
		FROM transactions
		WHERE user_id = {:user} AND type = 'expense' AND category_id IS NOT NULL
			AND date >= {:from} AND date <= {:to}
		GROUP BY category_id`,
	).Bind(dbx.Params{
		"user": userID,
		"from": formatDate(from),
		"to":   formatDate(to),
	}).WithContext(ctx).All(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to sum spending by category: %w", err)
	}

	totals := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[row.CategoryID] = models.FromCents(row.Total)
	}
	return totals, nil
}

// Count counts the user's transactions dated within [from, to]
func (r *TransactionRepository) Count(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	var n int64
	err := builder(ctx, r.db).NewQuery(
		"SELECT COUNT(*) FROM transactions WHERE user_id = {:user} AND date >= {:from} AND date <= {:to}",
	).Bind(dbx.Params{
		"user": userID,
		"from": formatDate(from),
		"to":   formatDate(to),
	}).WithContext(ctx).Row(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

type monthlyTotalRow struct {
	Month   string `db:"month"`
	Income  int64  `db:"income"`
	Expense int64  `db:"expense"`
}

// MonthlyTotals groups income and expense by calendar month, oldest first
func (r *TransactionRepository) MonthlyTotals(ctx context.Context, userID string) ([]repositories.MonthlyTotal, error) {
	var rows []monthlyTotalRow
	err := builder(ctx, r.db).NewQuery(`
		SELECT
			substr(date, 1, 7) AS month,
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0) AS income,
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END), 0) AS expense
		FROM transactions
		WHERE user_id = {:user}
		GROUP BY month
		ORDER BY month ASC`,
	).Bind(dbx.Params{"user": userID}).WithContext(ctx).All(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize transactions by month: %w", err)
	}

	totals := make([]repositories.MonthlyTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, repositories.MonthlyTotal{
			Month:   row.Month,
			Income:  models.FromCents(row.Income),
			Expense: models.FromCents(row.Expense),
		})
	}
	return totals, nil
}

// LedgerSum returns Σincome − Σexpense over the wallet's transactions
func (r *TransactionRepository) LedgerSum(ctx context.Context, userID, walletID string) (decimal.Decimal, error) {
	var total int64
	err := builder(ctx, r.db).NewQuery(`
		SELECT COALESCE(SUM(CASE type WHEN 'income' THEN amount_cents WHEN 'expense' THEN -amount_cents ELSE 0 END), 0)
		FROM transactions
		WHERE user_id = {:user} AND wallet_id = {:wallet}`,
	).Bind(dbx.Params{"user": userID, "wallet": walletID}).WithContext(ctx).Row(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum wallet ledger: %w", err)
	}
	return models.FromCents(total), nil
}

func mapRowToTransaction(row transactionRow) *models.Transaction {
	return &models.Transaction{
		ID:                   row.ID,
		UserID:               row.UserID,
		WalletID:             row.WalletID,
		CategoryID:           stringPtr(row.CategoryID),
		RelatedTransactionID: stringPtr(row.RelatedTransactionID),
		Amount:               models.FromCents(row.AmountCents),
		Type:                 models.TransactionType(row.Type),
		Date:                 parseDate(row.Date),
		Description:          row.Description,
		CreatedAt:            parseTimestamp(row.CreatedAt),
		UpdatedAt:            parseTimestamp(row.UpdatedAt),
	}
}
