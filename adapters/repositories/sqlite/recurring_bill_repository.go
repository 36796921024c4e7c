package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/ZanzyTHEbar/spendr-go/domain/repositories"
	"github.com/pocketbase/dbx"
)

type recurringBillRow struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	Name        string         `db:"name"`
	AmountCents int64          `db:"amount_cents"`
	DueDay      int            `db:"due_day"`
	CategoryID  sql.NullString `db:"category_id"`
	IsActive    bool           `db:"is_active"`
	Notes       string         `db:"notes"`
	CreatedAt   string         `db:"created_at"`
	UpdatedAt   string         `db:"updated_at"`
}

// RecurringBillRepository is a SQLite implementation of the RecurringBillRepository interface
type RecurringBillRepository struct {
	db *dbx.DB
}

func NewRecurringBillRepository(db *dbx.DB) *RecurringBillRepository {
	return &RecurringBillRepository{db: db}
}

func (r *RecurringBillRepository) FindByID(ctx context.Context, userID, id string) (*models.RecurringBill, error) {
	var row recurringBillRow
	err := builder(ctx, r.db).Select().From("recurring_bills").
		Where(dbx.HashExp{"id": id, "user_id": userID}).
		WithContext(ctx).
		One(&row)
	if err != nil {
		return nil, notFound(err, models.ErrRecurringBillNotFound)
	}
	return mapRowToRecurringBill(row), nil
}

func (r *RecurringBillRepository) FindByName(ctx context.Context, userID, name string) (*models.RecurringBill, error) {
	var row recurringBillRow
	err := builder(ctx, r.db).Select().From("recurring_bills").
		Where(dbx.HashExp{"name": name, "user_id": userID}).
		WithContext(ctx).
		One(&row)
	if err != nil {
		return nil, notFound(err, models.ErrRecurringBillNotFound)
	}
	return mapRowToRecurringBill(row), nil
}

func (r *RecurringBillRepository) FindAll(ctx context.Context, filter repositories.RecurringBillFilter) ([]*models.RecurringBill, error) {
	query := builder(ctx, r.db).Select().From("recurring_bills").
		Where(dbx.HashExp{"user_id": filter.UserID})

	if filter.ActiveOnly {
		query = query.AndWhere(dbx.HashExp{"is_active": true})
	}

	var rows []recurringBillRow
	if err := query.OrderBy("due_day ASC", "name ASC").WithContext(ctx).All(&rows); err != nil {
		return nil, fmt.Errorf("failed to find recurring bills: %w", err)
	}

	bills := make([]*models.RecurringBill, 0, len(rows))
	for _, row := range rows {
		bills = append(bills, mapRowToRecurringBill(row))
	}
	return bills, nil
}

func (r *RecurringBillRepository) Create(ctx context.Context, bill *models.RecurringBill) error {
	_, err := builder(ctx, r.db).Insert("recurring_bills", dbx.Params{
		"id":           bill.ID,
		"user_id":      bill.UserID,
		"name":         bill.Name,
		"amount_cents": models.ToCents(bill.Amount),
		"due_day":      bill.DueDay,
		"category_id":  nullString(bill.CategoryID),
		"is_active":    bill.IsActive,
		"notes":        bill.Notes,
		"created_at":   formatTimestamp(bill.CreatedAt),
		"updated_at":   formatTimestamp(bill.UpdatedAt),
	}).WithContext(ctx).Execute()
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("recurring bill %q: %w", bill.Name, models.ErrDuplicate)
		}
		return fmt.Errorf("failed to create recurring bill: %w", err)
	}
	return nil
}

func (r *RecurringBillRepository) Update(ctx context.Context, bill *models.RecurringBill) error {
	bill.UpdatedAt = time.Now().UTC()
	res, err := builder(ctx, r.db).Update("recurring_bills", dbx.Params{
		"name":         bill.Name,
		"amount_cents": models.ToCents(bill.Amount),
		"due_day":      bill.DueDay,
		"category_id":  nullString(bill.CategoryID),
		"is_active":    bill.IsActive,
		"notes":        bill.Notes,
		"updated_at":   formatTimestamp(bill.UpdatedAt),
	}, dbx.HashExp{"id": bill.ID, "user_id": bill.UserID}).WithContext(ctx).Execute()
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("recurring bill %q: %w", bill.Name, models.ErrDuplicate)
		}
		return fmt.Errorf("failed to update recurring bill: %w", err)
	}
	return affected(res, models.ErrRecurringBillNotFound)
}

func (r *RecurringBillRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := builder(ctx, r.db).Delete("recurring_bills", dbx.HashExp{"id": id, "user_id": userID}).
		WithContext(ctx).Execute()
	if err != nil {
		return fmt.Errorf("failed to delete recurring bill: %w", err)
	}
	return affected(res, models.ErrRecurringBillNotFound)
}

func mapRowToRecurringBill(row recurringBillRow) *models.RecurringBill {
	return &models.RecurringBill{
		ID:         row.ID,
		UserID:     row.UserID,
		Name:       row.Name,
		Amount:     models.FromCents(row.AmountCents),
		DueDay:     row.DueDay,
		CategoryID: stringPtr(row.CategoryID),
		IsActive:   row.IsActive,
		Notes:      row.Notes,
		CreatedAt:  parseTimestamp(row.CreatedAt),
		UpdatedAt:  parseTimestamp(row.UpdatedAt),
	}
}
