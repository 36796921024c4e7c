package sqlite

import (
	"context"
	"testing"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/ZanzyTHEbar/spendr-go/domain/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetGoalRepository_Uniqueness(t *testing.T) {
	db := openTestDatabase(t)
	uow := db.UnitOfWork()
	ctx := context.Background()

	food := mustCreateCategory(t, uow.categoryRepo, "alice", "Food", models.CategoryTypeExpense)
	amount := decimal.RequireFromString("500")

	require.NoError(t, uow.budgetGoalRepo.Create(ctx, models.NewBudgetGoal("alice", 10, 2026, nil, amount, "overall")))
	require.NoError(t, uow.budgetGoalRepo.Create(ctx, models.NewBudgetGoal("alice", 10, 2026, &food.ID, amount, "food")))

	tests := []struct {
		name    string
		goal    *models.BudgetGoal
		wantDup bool
	}{
		{"second overall goal", models.NewBudgetGoal("alice", 10, 2026, nil, amount, ""), true},
		{"second category goal", models.NewBudgetGoal("alice", 10, 2026, &food.ID, amount, ""), true},
		{"next month", models.NewBudgetGoal("alice", 11, 2026, nil, amount, ""), false},
		{"other user", models.NewBudgetGoal("bob", 10, 2026, nil, amount, ""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := uow.budgetGoalRepo.Create(ctx, tt.goal)
			if tt.wantDup {
				assert.ErrorIs(t, err, models.ErrDuplicate)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBudgetGoalRepository_FindFor(t *testing.T) {
	db := openTestDatabase(t)
	uow := db.UnitOfWork()
	ctx := context.Background()

	food := mustCreateCategory(t, uow.categoryRepo, "alice", "Food", models.CategoryTypeExpense)
	overall := models.NewBudgetGoal("alice", 2, 2028, nil, decimal.RequireFromString("1000"), "")
	perFood := models.NewBudgetGoal("alice", 2, 2028, &food.ID, decimal.RequireFromString("250.75"), "")
	require.NoError(t, uow.budgetGoalRepo.Create(ctx, overall))
	require.NoError(t, uow.budgetGoalRepo.Create(ctx, perFood))

	found, err := uow.budgetGoalRepo.FindFor(ctx, "alice", 2, 2028, nil)
	require.NoError(t, err)
	assert.Equal(t, overall.ID, found.ID)
	assert.True(t, found.IsOverall())

	found, err = uow.budgetGoalRepo.FindFor(ctx, "alice", 2, 2028, &food.ID)
	require.NoError(t, err)
	assert.Equal(t, perFood.ID, found.ID)
	assert.Equal(t, "250.75", found.Amount.StringFixed(2))

	_, err = uow.budgetGoalRepo.FindFor(ctx, "alice", 3, 2028, nil)
	assert.ErrorIs(t, err, models.ErrBudgetGoalNotFound)

	goals, err := uow.budgetGoalRepo.FindAll(ctx, repositories.BudgetGoalFilter{UserID: "alice", Month: 2, Year: 2028})
	require.NoError(t, err)
	assert.Len(t, goals, 2)

	// deleting the category removes its goals
	require.NoError(t, uow.categoryRepo.Delete(ctx, "alice", food.ID))
	_, err = uow.budgetGoalRepo.FindByID(ctx, "alice", perFood.ID)
	assert.ErrorIs(t, err, models.ErrBudgetGoalNotFound)
}

func TestRecurringBillRepository_OrderAndUpdate(t *testing.T) {
	db := openTestDatabase(t)
	repo := db.UnitOfWork().billRepo
	ctx := context.Background()

	rent := models.NewRecurringBill("alice", "Rent", decimal.RequireFromString("1200"), 1, nil, "")
	internet := models.NewRecurringBill("alice", "Internet", decimal.RequireFromString("59.99"), 15, nil, "")
	power := models.NewRecurringBill("alice", "Electricity", decimal.RequireFromString("80"), 15, nil, "")
	for _, bill := range []*models.RecurringBill{rent, internet, power} {
		require.NoError(t, repo.Create(ctx, bill))
	}

	err := repo.Create(ctx, models.NewRecurringBill("alice", "Rent", decimal.NewFromInt(1), 2, nil, ""))
	assert.ErrorIs(t, err, models.ErrDuplicate)

	bills, err := repo.FindAll(ctx, repositories.RecurringBillFilter{UserID: "alice"})
	require.NoError(t, err)
	require.Len(t, bills, 3)
	assert.Equal(t, []string{"Rent", "Electricity", "Internet"}, []string{bills[0].Name, bills[1].Name, bills[2].Name})

	internet.IsActive = false
	require.NoError(t, repo.Update(ctx, internet))

	active, err := repo.FindAll(ctx, repositories.RecurringBillFilter{UserID: "alice", ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	found, err := repo.FindByName(ctx, "alice", "Internet")
	require.NoError(t, err)
	assert.False(t, found.IsActive)
	assert.Equal(t, "59.99", found.Amount.StringFixed(2))

	require.NoError(t, repo.Delete(ctx, "alice", rent.ID))
	assert.ErrorIs(t, repo.Delete(ctx, "alice", rent.ID), models.ErrRecurringBillNotFound)
}
