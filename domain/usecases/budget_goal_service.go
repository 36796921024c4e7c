package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/ZanzyTHEbar/spendr-go/domain/repositories"
	"github.com/shopspring/decimal"
)

// BudgetGoalService manages monthly spending goals.
type BudgetGoalService struct {
	service
}

// CreateBudgetGoalInput defines a goal; an empty CategoryID makes it the overall goal of the month.
type CreateBudgetGoalInput struct {
	Month       int
	Year        int
	CategoryID  string
	Amount      decimal.Decimal
	Description string
}

// UpdateBudgetGoalInput holds the fields to change. An empty CategoryID turns the goal into an overall one.
type UpdateBudgetGoalInput struct {
	Month       *int
	Year        *int
	CategoryID  *string
	Amount      *decimal.Decimal
	Description *string
}

const duplicateGoal = "a budget goal for this month, year and category already exists"

// CreateBudgetGoal creates a goal for one month.
func (s *BudgetGoalService) CreateBudgetGoal(ctx context.Context, userID string, input CreateBudgetGoalInput) (*models.BudgetGoal, error) {
	goal := models.NewBudgetGoal(userID, input.Month, input.Year, optionalID(input.CategoryID),
		input.Amount, strings.TrimSpace(input.Description))

	err := s.uow.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkGoal(ctx, goal); err != nil {
			return err
		}
		return s.uow.GetBudgetGoalRepository().Create(ctx, goal)
	})
	if err != nil {
		return nil, fail("CreateBudgetGoal", duplicateAsValidation(err, "non_field_errors", duplicateGoal))
	}

	logger := s.logger("CreateBudgetGoal")
	logger.Info().
		Str("goal", goal.ID).
		Int("month", goal.Month).
		Int("year", goal.Year).
		Msg("Budget goal created")
	return goal, nil
}

// GetBudgetGoal returns one of the user's goals.
func (s *BudgetGoalService) GetBudgetGoal(ctx context.Context, userID, id string) (*models.BudgetGoal, error) {
	goal, err := s.uow.GetBudgetGoalRepository().FindByID(ctx, userID, id)
	if err != nil {
		return nil, fail("GetBudgetGoal", err)
	}
	return goal, nil
}

// ListBudgetGoals returns the user's goals, newest period first. Zero month or year disables that filter.
func (s *BudgetGoalService) ListBudgetGoals(ctx context.Context, userID string, month, year int) ([]*models.BudgetGoal, error) {
	goals, err := s.uow.GetBudgetGoalRepository().FindAll(ctx, repositories.BudgetGoalFilter{
		UserID: userID,
		Month:  month,
		Year:   year,
	})
	if err != nil {
		return nil, fail("ListBudgetGoals", err)
	}
	return goals, nil
}

// UpdateBudgetGoal changes a goal; the uniqueness rule is checked again against the new period and category.
func (s *BudgetGoalService) UpdateBudgetGoal(ctx context.Context, userID, id string, input UpdateBudgetGoalInput) (*models.BudgetGoal, error) {
	var goal *models.BudgetGoal

	err := s.uow.RunInTransaction(ctx, func(ctx context.Context) error {
		repo := s.uow.GetBudgetGoalRepository()

		var err error
		goal, err = repo.FindByID(ctx, userID, id)
		if err != nil {
			return err
		}

		if input.Month != nil {
			goal.Month = *input.Month
		}
		if input.Year != nil {
			goal.Year = *input.Year
		}
		if input.CategoryID != nil {
			goal.CategoryID = optionalID(*input.CategoryID)
		}
		if input.Amount != nil {
			goal.Amount = *input.Amount
		}
		if input.Description != nil {
			goal.Description = strings.TrimSpace(*input.Description)
		}

		if err := s.checkGoal(ctx, goal); err != nil {
			return err
		}
		return repo.Update(ctx, goal)
	})
	if err != nil {
		return nil, fail("UpdateBudgetGoal", duplicateAsValidation(err, "non_field_errors", duplicateGoal))
	}

	logger := s.logger("UpdateBudgetGoal")
	logger.Info().Str("goal", id).Msg("Budget goal updated")
	return goal, nil
}

// DeleteBudgetGoal removes one of the user's goals.
func (s *BudgetGoalService) DeleteBudgetGoal(ctx context.Context, userID, id string) error {
	err := s.uow.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.uow.GetBudgetGoalRepository().Delete(ctx, userID, id)
	})
	if err != nil {
		return fail("DeleteBudgetGoal", err)
	}

	logger := s.logger("DeleteBudgetGoal")
	logger.Info().Str("goal", id).Msg("Budget goal deleted")
	return nil
}

// checkGoal collects field problems, the category rule and the one-goal-per-period rule.
func (s *BudgetGoalService) checkGoal(ctx context.Context, goal *models.BudgetGoal) error {
	ve := &models.ValidationError{}
	ve.Merge(goal.Validate())

	if goal.CategoryID != nil {
		if err := checkExpenseCategory(ctx, s.uow, goal.UserID, *goal.CategoryID, ve); err != nil {
			return err
		}
	}

	if ve.HasErrors() {
		return ve
	}

	existing, err := s.uow.GetBudgetGoalRepository().FindFor(ctx, goal.UserID, goal.Month, goal.Year, goal.CategoryID)
	switch {
	case errors.Is(err, models.ErrNotFound):
	case err != nil:
		return err
	case existing.ID != goal.ID:
		ve.Add("non_field_errors", duplicateGoal)
	}

	return ve.OrNil()
}

// checkExpenseCategory requires categoryID to be visible to the user and of expense type.
func checkExpenseCategory(ctx context.Context, uow repositories.UnitOfWork, userID, categoryID string, ve *models.ValidationError) error {
	category, err := uow.GetCategoryRepository().FindByID(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if category.Type != models.CategoryTypeExpense {
		ve.Add("category", "must be an expense category")
	}
	return nil
}
