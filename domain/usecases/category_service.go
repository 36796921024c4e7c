package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/ZanzyTHEbar/spendr-go/domain/repositories"
	"github.com/shopspring/decimal"
)

// CategoryService manages the categories a user files transactions under.
// Shared categories are readable by everyone and writable by no one.
type CategoryService struct {
	service
}

// CreateCategoryInput defines the input for creating a category.
type CreateCategoryInput struct {
	Name          string
	Description   string
	Type          models.CategoryType
	Color         string
	MonthlyBudget decimal.Decimal
}

// UpdateCategoryInput holds the fields to change; nil leaves a field as is.
type UpdateCategoryInput struct {
	Name          *string
	Description   *string
	Type          *models.CategoryType
	Color         *string
	MonthlyBudget *decimal.Decimal
}

const duplicateCategoryName = "a category with this name and type already exists"

// CreateCategory creates a category owned by the user.
func (s *CategoryService) CreateCategory(ctx context.Context, userID string, input CreateCategoryInput) (*models.Category, error) {
	category := models.NewCategory(userID, input.Name, strings.TrimSpace(input.Description),
		models.CategoryType(strings.ToLower(string(input.Type))), strings.TrimSpace(input.Color), input.MonthlyBudget)

	if err := category.Validate(); err != nil {
		return nil, err
	}

	err := s.uow.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.uow.GetCategoryRepository().Create(ctx, category)
	})
	if err != nil {
		return nil, fail("CreateCategory", duplicateAsValidation(err, "name", duplicateCategoryName))
	}

	logger := s.logger("CreateCategory")
	logger.Info().Str("category", category.ID).Str("name", category.Name).Msg("Category created")
	return category, nil
}

// GetCategory returns a category visible to the user.
func (s *CategoryService) GetCategory(ctx context.Context, userID, id string) (*models.Category, error) {
	category, err := s.uow.GetCategoryRepository().FindByID(ctx, userID, id)
	if err != nil {
		return nil, fail("GetCategory", err)
	}
	return category, nil
}

// ListCategories returns the user's own and the shared categories, optionally of one type.
func (s *CategoryService) ListCategories(ctx context.Context, userID string, categoryType models.CategoryType) ([]*models.Category, error) {
	filter := repositories.CategoryFilter{UserID: userID}
	if categoryType != "" {
		categoryType = models.CategoryType(strings.ToLower(string(categoryType)))
		if !categoryType.IsValid() {
			return nil, models.NewValidationError("type", "must be one of income, expense")
		}
		filter.Type = categoryType
	}

	categories, err := s.uow.GetCategoryRepository().FindAll(ctx, filter)
	if err != nil {
		return nil, fail("ListCategories", err)
	}
	return categories, nil
}

// UpdateCategory changes an owned category. The type is frozen once transactions, goals or bills use the category.
func (s *CategoryService) UpdateCategory(ctx context.Context, userID, id string, input UpdateCategoryInput) (*models.Category, error) {
	var category *models.Category

	err := s.uow.RunInTransaction(ctx, func(ctx context.Context) error {
		repo := s.uow.GetCategoryRepository()

		var err error
		category, err = repo.FindByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if category.IsShared() {
			return models.ErrSharedCategoryReadOnly
		}

		previousType := category.Type
		if input.Name != nil {
			category.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			category.Description = strings.TrimSpace(*input.Description)
		}
		if input.Type != nil {
			category.Type = models.CategoryType(strings.ToLower(string(*input.Type)))
		}
		if input.Color != nil {
			category.Color = strings.TrimSpace(*input.Color)
		}
		if input.MonthlyBudget != nil {
			category.MonthlyBudget = *input.MonthlyBudget
		}

		ve := &models.ValidationError{}
		ve.Merge(category.Validate())
		if category.Type != previousType {
			n, err := repo.CountTransactions(ctx, userID, id)
			if err != nil {
				return err
			}
			if n > 0 {
				ve.Add("type", fmt.Sprintf("cannot change the type of a category used by %d transactions", n))
			}
			plans, err := repo.CountPlans(ctx, userID, id)
			if err != nil {
				return err
			}
			if plans > 0 {
				ve.Add("type", fmt.Sprintf("cannot change the type of a category used by %d budget goals or recurring bills", plans))
			}
		}
		if err := ve.OrNil(); err != nil {
			return err
		}

		return repo.Update(ctx, category)
	})
	if err != nil {
		return nil, fail("UpdateCategory", categoryError(err))
	}

	logger := s.logger("UpdateCategory")
	logger.Info().Str("category", id).Msg("Category updated")
	return category, nil
}

// DeleteCategory removes an owned category that no transaction references.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID, id string) error {
	err := s.uow.RunInTransaction(ctx, func(ctx context.Context) error {
		repo := s.uow.GetCategoryRepository()

		category, err := repo.FindByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if category.IsShared() {
			return models.ErrSharedCategoryReadOnly
		}
		return repo.Delete(ctx, userID, id)
	})
	if err != nil {
		return fail("DeleteCategory", categoryError(err))
	}

	logger := s.logger("DeleteCategory")
	logger.Info().Str("category", id).Msg("Category deleted")
	return nil
}

// SeedDefaults gives the user their own copy of the starter categories.
// Names the user already sees for the same type, owned or shared, are skipped.
func (s *CategoryService) SeedDefaults(ctx context.Context, userID string) ([]*models.Category, error) {
	created := []*models.Category{}

	err := s.uow.RunInTransaction(ctx, func(ctx context.Context) error {
		repo := s.uow.GetCategoryRepository()
		visible, err := repo.FindAll(ctx, repositories.CategoryFilter{UserID: userID})
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(visible))
		for _, c := range visible {
			seen[categoryKey(c)] = true
		}

		for _, template := range models.DefaultCategories() {
			if seen[categoryKey(template)] {
				continue
			}

			category := models.NewCategory(userID, template.Name, template.Description, template.Type, template.Color, decimal.Zero)
			if err := repo.Create(ctx, category); err != nil {
				return err
			}
			created = append(created, category)
		}
		return nil
	})
	if err != nil {
		return nil, fail("SeedDefaults", err)
	}

	logger := s.logger("SeedDefaults")
	logger.Info().Int("created", len(created)).Msg("Default categories seeded")
	return created, nil
}

func categoryKey(c *models.Category) string {
	return string(c.Type) + "|" + c.Name
}

// categoryError turns storage refusals into field errors.
func categoryError(err error) error {
	switch {
	case errors.Is(err, models.ErrDuplicate):
		return models.NewValidationError("name", duplicateCategoryName)
	case errors.Is(err, models.ErrCategoryInUse):
		return models.NewValidationError("category", err.Error())
	case errors.Is(err, models.ErrSharedCategoryReadOnly):
		return models.NewValidationError("category", models.ErrSharedCategoryReadOnly.Error())
	}
	return err
}
