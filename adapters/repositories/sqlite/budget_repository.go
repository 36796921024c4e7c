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

type budgetGoalRow struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	Month       int            `db:"month"`
	Year        int            `db:"year"`
	CategoryID  sql.NullString `db:"category_id"`
	AmountCents int64          `db:"amount_cents"`
	Description string         `db:"description"`
	CreatedAt   string         `db:"created_at"`
	UpdatedAt   string         `db:"updated_at"`
}

// BudgetGoalRepository is a SQLite implementation of the BudgetGoalRepository interface
type BudgetGoalRepository struct {
	db *dbx.DB
}

func NewBudgetGoalRepository(db *dbx.DB) *BudgetGoalRepository {
	return &BudgetGoalRepository{db: db}
}

func (r *BudgetGoalRepository) FindByID(ctx context.Context, userID, id string) (*models.BudgetGoal, error) {
	var row budgetGoalRow
	err := builder(ctx, r.db).Select().From("budget_goals").
		Where(dbx.HashExp{"id": id, "user_id": userID}).
		WithContext(ctx).
		One(&row)
	if err != nil {
		return nil, notFound(err, models.ErrBudgetGoalNotFound)
	}
	return mapRowToBudgetGoal(row), nil
}

// FindFor finds the goal for one (month, year, category) tuple
func (r *BudgetGoalRepository) FindFor(ctx context.Context, userID string, month, year int, categoryID *string) (*models.BudgetGoal, error) {
	cond := dbx.HashExp{"user_id": userID, "month": month, "year": year, "category_id": nil}
	if categoryID != nil {
		cond["category_id"] = *categoryID
	}

	var row budgetGoalRow
	err := builder(ctx, r.db).Select().From("budget_goals").
		Where(cond).
		WithContext(ctx).
		One(&row)
	if err != nil {
		return nil, notFound(err, models.ErrBudgetGoalNotFound)
	}
	return mapRowToBudgetGoal(row), nil
}

func (r *BudgetGoalRepository) FindAll(ctx context.Context, filter repositories.BudgetGoalFilter) ([]*models.BudgetGoal, error) {
	query := builder(ctx, r.db).Select().From("budget_goals").
		Where(dbx.HashExp{"user_id": filter.UserID})

	if filter.Month > 0 {
		query = query.AndWhere(dbx.HashExp{"month": filter.Month})
	}
	if filter.Year > 0 {
		query = query.AndWhere(dbx.HashExp{"year": filter.Year})
	}
	if filter.CategoryID != "" {
		query = query.AndWhere(dbx.HashExp{"category_id": filter.CategoryID})
	}

	var rows []budgetGoalRow
	err := query.OrderBy("year DESC", "month DESC", "created_at ASC").
		WithContext(ctx).
		All(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to find budget goals: %w", err)
	}

	goals := make([]*models.BudgetGoal, 0, len(rows))
	for _, row := range rows {
		goals = append(goals, mapRowToBudgetGoal(row))
	}
	return goals, nil
}

func (r *BudgetGoalRepository) Create(ctx context.Context, goal *models.BudgetGoal) error {
	_, err := builder(ctx, r.db).Insert("budget_goals", dbx.Params{
		"id":           goal.ID,
		"user_id":      goal.UserID,
		"month":        goal.Month,
		"year":         goal.Year,
		"category_id":  nullString(goal.CategoryID),
		"amount_cents": models.ToCents(goal.Amount),
		"description":  goal.Description,
		"created_at":   formatTimestamp(goal.CreatedAt),
		"updated_at":   formatTimestamp(goal.UpdatedAt),
	}).WithContext(ctx).Execute()
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("budget goal for %d/%d: %w", goal.Month, goal.Year, models.ErrDuplicate)
		}
		return fmt.Errorf("failed to create budget goal: %w", err)
	}
	return nil
}

func (r *BudgetGoalRepository) Update(ctx context.Context, goal *models.BudgetGoal) error {
	goal.UpdatedAt = time.Now().UTC()
	res, err := builder(ctx, r.db).Update("budget_goals", dbx.Params{
		"month":        goal.Month,
		"year":         goal.Year,
		"category_id":  nullString(goal.CategoryID),
		"amount_cents": models.ToCents(goal.Amount),
		"description":  goal.Description,
		"updated_at":   formatTimestamp(goal.UpdatedAt),
	}, dbx.HashExp{"id": goal.ID, "user_id": goal.UserID}).WithContext(ctx).Execute()
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("budget goal for %d/%d: %w", goal.Month, goal.Year, models.ErrDuplicate)
		}
		return fmt.Errorf("failed to update budget goal: %w", err)
	}
	return affected(res, models.ErrBudgetGoalNotFound)
}

func (r *BudgetGoalRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := builder(ctx, r.db).Delete("budget_goals", dbx.HashExp{"id": id, "user_id": userID}).
		WithContext(ctx).Execute()
	if err != nil {
		return fmt.Errorf("failed to delete budget goal: %w", err)
	}
	return affected(res, models.ErrBudgetGoalNotFound)
}

func mapRowToBudgetGoal(row budgetGoalRow) *models.BudgetGoal {
	return &models.BudgetGoal{
		ID:          row.ID,
		UserID:      row.UserID,
		Month:       row.Month,
		Year:        row.Year,
		CategoryID:  stringPtr(row.CategoryID),
		Amount:      models.FromCents(row.AmountCents),
		Description: row.Description,
		CreatedAt:   parseTimestamp(row.CreatedAt),
		UpdatedAt:   parseTimestamp(row.UpdatedAt),
	}
}
