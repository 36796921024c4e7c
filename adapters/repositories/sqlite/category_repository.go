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

// categoryRow mirrors the categories table
type categoryRow struct {
	ID                 string         `db:"id"`
	UserID             sql.NullString `db:"user_id"`
	Name               string         `db:"name"`
	Description        string         `db:"description"`
	Type               string         `db:"type"`
	Color              string         `db:"color"`
	MonthlyBudgetCents int64          `db:"monthly_budget_cents"`
	CreatedAt          string         `db:"created_at"`
	UpdatedAt          string         `db:"updated_at"`
}

var categorySortColumns = map[string]bool{"name": true, "type": true, "created_at": true}

// CategoryRepository is a SQLite implementation of the CategoryRepository interface
type CategoryRepository struct {
	db *dbx.DB
}

// NewCategoryRepository creates a new SQLite category repository
func NewCategoryRepository(db *dbx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// visibleTo matches the user's own categories and shared ones
func visibleTo(userID string) dbx.Expression {
	return dbx.Or(dbx.HashExp{"user_id": userID}, dbx.HashExp{"user_id": nil})
}

// FindByID finds a category visible to the user
func (r *CategoryRepository) FindByID(ctx context.Context, userID, id string) (*models.Category, error) {
	var row categoryRow
	err := builder(ctx, r.db).Select().From("categories").
		Where(dbx.HashExp{"id": id}).
		AndWhere(visibleTo(userID)).
		WithContext(ctx).
		One(&row)
	if err != nil {
		return nil, notFound(err, models.ErrCategoryNotFound)
	}
	return mapRowToCategory(row), nil
}

// FindAll finds all categories with optional filters
func (r *CategoryRepository) FindAll(ctx context.Context, filter repositories.CategoryFilter) ([]*models.Category, error) {
	query := builder(ctx, r.db).Select().From("categories")

	if filter.OwnedOnly {
		query = query.Where(dbx.HashExp{"user_id": filter.UserID})
	} else {
		query = query.Where(visibleTo(filter.UserID))
	}

	// Apply filters
	if filter.Type != "" {
		query = query.AndWhere(dbx.HashExp{"type": string(filter.Type)})
	}

	if filter.NameLike != "" {
		query = query.AndWhere(dbx.NewExp("name LIKE {:name}", dbx.Params{"name": "%" + filter.NameLike + "%"}))
	}

	query = query.OrderBy(orderBy(filter.SortBy, filter.SortOrder, categorySortColumns, "name ASC"), "id ASC")

	if filter.Limit > 0 {
		query = query.Limit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(int64(filter.Offset))
	}

	var rows []categoryRow
	if err := query.WithContext(ctx).All(&rows); err != nil {
		return nil, fmt.Errorf("failed to find categories: %w", err)
	}

	categories := make([]*models.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, mapRowToCategory(row))
	}
	return categories, nil
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	_, err := builder(ctx, r.db).Insert("categories", dbx.Params{
		"id":                   category.ID,
		"user_id":              nullString(category.UserID),
		"name":                 category.Name,
		"description":          category.Description,
		"type":                 string(category.Type),
		"color":                category.Color,
		"monthly_budget_cents": models.ToCents(category.MonthlyBudget),
		"created_at":           formatTimestamp(category.CreatedAt),
		"updated_at":           formatTimestamp(category.UpdatedAt),
	}).WithContext(ctx).Execute()
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %q: %w", category.Name, models.ErrDuplicate)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Update updates an owned category; shared categories are read-only
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	if category.IsShared() {
		return models.ErrSharedCategoryReadOnly
	}

	category.UpdatedAt = time.Now().UTC()
	res, err := builder(ctx, r.db).Update("categories", dbx.Params{
		"name":                 category.Name,
		"description":          category.Description,
		"type":                 string(category.Type),
		"color":                category.Color,
		"monthly_budget_cents": models.ToCents(category.MonthlyBudget),
		"updated_at":           formatTimestamp(category.UpdatedAt),
	}, dbx.HashExp{"id": category.ID, "user_id": *category.UserID}).WithContext(ctx).Execute()
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %q: %w", category.Name, models.ErrDuplicate)
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	return affected(res, models.ErrCategoryNotFound)
}

// Delete deletes an owned category by ID
func (r *CategoryRepository) Delete(ctx context.Context, userID, id string) error {
	// Check for any transactions using this category
	txCount, err := r.CountTransactions(ctx, userID, id)
	if err != nil {
		return err
	}
	if txCount > 0 {
		return fmt.Errorf("category cannot be deleted because it has %d transactions: %w", txCount, models.ErrCategoryInUse)
	}

	res, err := builder(ctx, r.db).Delete("categories", dbx.HashExp{"id": id, "user_id": userID}).
		WithContext(ctx).Execute()
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return affected(res, models.ErrCategoryNotFound)
}

// CountTransactions counts the user's transactions filed under the category
func (r *CategoryRepository) CountTransactions(ctx context.Context, userID, id string) (int64, error) {
	var n int64
	err := builder(ctx, r.db).NewQuery("SELECT COUNT(*) FROM transactions WHERE category_id = {:id} AND user_id = {:user}").
		Bind(dbx.Params{"id": id, "user": userID}).
		WithContext(ctx).
		Row(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to check for transactions using category: %w", err)
	}
	return n, nil
}

// CountPlans counts the user's budget goals and recurring bills tied to the category
func (r *CategoryRepository) CountPlans(ctx context.Context, userID, id string) (int64, error) {
	var n int64
	err := builder(ctx, r.db).NewQuery(
		"SELECT (SELECT COUNT(*) FROM budget_goals WHERE category_id = {:id} AND user_id = {:user}) + " +
			"(SELECT COUNT(*) FROM recurring_bills WHERE category_id = {:id} AND user_id = {:user})",
	).Bind(dbx.Params{"id": id, "user": userID}).WithContext(ctx).Row(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to check for goals and bills using category: %w", err)
	}
	return n, nil
}

// SumMonthlyBudgets sums monthly_budget over visible expense categories
func (r *CategoryRepository) SumMonthlyBudgets(ctx context.Context, userID string) (decimal.Decimal, error) {
	var total int64
	err := builder(ctx, r.db).NewQuery(
		"SELECT COALESCE(SUM(monthly_budget_cents), 0) FROM categories WHERE (user_id = {:user} OR user_id IS NULL) AND type = 'expense' AND monthly_budget_cents > 0",
	).Bind(dbx.Params{"user": userID}).WithContext(ctx).Row(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum monthly budgets: %w", err)
	}
	return models.FromCents(total), nil
}

// Count returns the number of categories visible to the user
func (r *CategoryRepository) Count(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := builder(ctx, r.db).NewQuery("SELECT COUNT(*) FROM categories WHERE user_id = {:user} OR user_id IS NULL").
		Bind(dbx.Params{"user": userID}).
		WithContext(ctx).
		Row(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return n, nil
}

func mapRowToCategory(row categoryRow) *models.Category {
	return &models.Category{
		ID:            row.ID,
		UserID:        stringPtr(row.UserID),
		Name:          row.Name,
		Description:   row.Description,
		Type:          models.CategoryType(row.Type),
		Color:         row.Color,
		MonthlyBudget: models.FromCents(row.MonthlyBudgetCents),
		CreatedAt:     parseTimestamp(row.CreatedAt),
		UpdatedAt:     parseTimestamp(row.UpdatedAt),
	}
}
