package usecases_test

import (
	"errors"
	"testing"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/ZanzyTHEbar/spendr-go/domain/usecases"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWallets_CreateAndUpdate(t *testing.T) {
	f := newFixture(t)

	wallet, err := f.svc.Wallets.CreateWallet(f.ctx, alice, usecases.CreateWalletInput{
		Name:           "  Cash  ",
		OpeningBalance: money("250.75"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Cash", wallet.Name)
	assert.Equal(t, "PHP", wallet.Currency)
	assert.Equal(t, models.WalletTypeCash, wallet.Type)
	assertMoney(t, "250.75", wallet.Balance)

	_, err = f.svc.Wallets.CreateWallet(f.ctx, alice, usecases.CreateWalletInput{Name: "Cash"})
	assert.Contains(t, fieldErrors(t, err), "name")

	// names are unique per user only
	_, err = f.svc.Wallets.CreateWallet(f.ctx, bob, usecases.CreateWalletInput{Name: "Cash"})
	require.NoError(t, err)

	_, err = f.svc.Wallets.CreateWallet(f.ctx, alice, usecases.CreateWalletInput{
		Name: "Broken", OpeningBalance: money("-1"), Currency: "XYZ", Type: "piggy",
	})
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "opening_balance")
	assert.Contains(t, fields, "currency")
	assert.Contains(t, fields, "type")

	name := "Wallet"
	active := false
	walletType := models.WalletTypeBank
	updated, err := f.svc.Wallets.UpdateWallet(f.ctx, alice, wallet.ID, usecases.UpdateWalletInput{
		Name: &name, IsActive: &active, Type: &walletType,
	})
	require.NoError(t, err)
	assert.Equal(t, "Wallet", updated.Name)
	assert.False(t, updated.IsActive)
	assertMoney(t, "250.75", updated.Balance)

	wallets, err := f.svc.Wallets.ListWallets(f.ctx, alice)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	assert.False(t, wallets[0].IsActive)

	_, err = f.svc.Wallets.GetWallet(f.ctx, bob, wallet.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestWallets_DeleteRemovesPairedLegs(t *testing.T) {
	f := newFixture(t)
	cash := f.wallet(t, alice, "Cash", "1000")
	savings := f.wallet(t, alice, "Savings", "500")
	food := f.category(t, alice, "Food", models.CategoryTypeExpense, "0")

	f.record(t, alice, savings, food, "20", models.TransactionTypeExpense, "2026-10-01")
	_, err := f.svc.Transactions.TransferFunds(f.ctx, alice, usecases.TransferInput{
		FromWalletID: cash.ID, ToWalletID: savings.ID, Amount: money("300"),
	})
	require.NoError(t, err)
	_, err = f.svc.Transactions.TransferFunds(f.ctx, alice, usecases.TransferInput{
		FromWalletID: savings.ID, ToWalletID: cash.ID, Amount: money("50"),
	})
	require.NoError(t, err)
	assertMoney(t, "730", f.balance(t, alice, savings))

	require.NoError(t, f.svc.Wallets.DeleteWallet(f.ctx, alice, cash.ID))

	_, err = f.svc.Wallets.GetWallet(f.ctx, alice, cash.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	assertMoney(t, "480", f.balance(t, alice, savings))
	f.assertConsistent(t, alice, savings)

	txs, err := f.svc.Transactions.ListTransactions(f.ctx, alice, usecases.TransactionQuery{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assertMoney(t, "20", txs[0].Amount)

	assert.True(t, errors.Is(f.svc.Wallets.DeleteWallet(f.ctx, alice, cash.ID), models.ErrNotFound))
}

func TestCategories_Rules(t *testing.T) {
	f := newFixture(t)
	cash := f.wallet(t, alice, "Cash", "1000")
	food := f.category(t, alice, "Food", models.CategoryTypeExpense, "300")

	_, err := f.svc.Categories.CreateCategory(f.ctx, alice, usecases.CreateCategoryInput{Name: "Food", Type: models.CategoryTypeExpense})
	assert.Contains(t, fieldErrors(t, err), "name")

	// same name with the other type is a different category
	f.category(t, alice, "Food", models.CategoryTypeIncome, "0")

	_, err = f.svc.Categories.CreateCategory(f.ctx, alice, usecases.CreateCategoryInput{
		Name: "Bonus", Type: models.CategoryTypeIncome, MonthlyBudget: money("10"),
	})
	assert.Contains(t, fieldErrors(t, err), "monthly_budget")

	f.record(t, alice, cash, food, "10", models.TransactionTypeExpense, "2026-10-01")

	income := models.CategoryTypeIncome
	_, err = f.svc.Categories.UpdateCategory(f.ctx, alice, food.ID, usecases.UpdateCategoryInput{Type: &income})
	assert.Contains(t, fieldErrors(t, err), "type")

	assert.Contains(t, fieldErrors(t, f.svc.Categories.DeleteCategory(f.ctx, alice, food.ID)), "category")

	budget := money("450")
	updated, err := f.svc.Categories.UpdateCategory(f.ctx, alice, food.ID, usecases.UpdateCategoryInput{MonthlyBudget: &budget})
	require.NoError(t, err)
	assertMoney(t, "450", updated.MonthlyBudget)

	_, err = f.svc.Categories.GetCategory(f.ctx, bob, food.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	expenses, err := f.svc.Categories.ListCategories(f.ctx, alice, models.CategoryTypeExpense)
	require.NoError(t, err)
	require.Len(t, expenses, 1)

	_, err = f.svc.Categories.ListCategories(f.ctx, alice, "savings")
	assert.Contains(t, fieldErrors(t, err), "type")
}

func TestCategories_TypeFrozenByGoalsAndBills(t *testing.T) {
	f := newFixture(t)
	food := f.category(t, alice, "Food", models.CategoryTypeExpense, "0")
	rent := f.category(t, alice, "Rent", models.CategoryTypeExpense, "0")

	_, err := f.svc.BudgetGoals.CreateBudgetGoal(f.ctx, alice, usecases.CreateBudgetGoalInput{
		Month: 10, Year: 2026, CategoryID: food.ID, Amount: money("300"),
	})
	require.NoError(t, err)
	_, err = f.svc.Bills.CreateRecurringBill(f.ctx, alice, usecases.CreateRecurringBillInput{
		Name: "Landlord", Amount: money("1200"), DueDay: 1, CategoryID: rent.ID,
	})
	require.NoError(t, err)

	income := models.CategoryTypeIncome
	for _, category := range []*models.Category{food, rent} {
		_, err = f.svc.Categories.UpdateCategory(f.ctx, alice, category.ID, usecases.UpdateCategoryInput{Type: &income})
		assert.Contains(t, fieldErrors(t, err), "type")

		stored, err := f.svc.Categories.GetCategory(f.ctx, alice, category.ID)
		require.NoError(t, err)
		assert.Equal(t, models.CategoryTypeExpense, stored.Type)
	}

	spare := f.category(t, alice, "Spare", models.CategoryTypeExpense, "0")
	switched, err := f.svc.Categories.UpdateCategory(f.ctx, alice, spare.ID, usecases.UpdateCategoryInput{Type: &income})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryTypeIncome, switched.Type)
}

func TestCategories_DeleteUnused(t *testing.T) {
	f := newFixture(t)
	travel := f.category(t, alice, "Travel", models.CategoryTypeExpense, "0")

	assert.True(t, errors.Is(f.svc.Categories.DeleteCategory(f.ctx, bob, travel.ID), models.ErrNotFound))
	require.NoError(t, f.svc.Categories.DeleteCategory(f.ctx, alice, travel.ID))

	_, err := f.svc.Categories.GetCategory(f.ctx, alice, travel.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestCategories_SeedDefaults(t *testing.T) {
	f := newFixture(t)
	f.category(t, alice, "Food", models.CategoryTypeExpense, "0")

	created, err := f.svc.Categories.SeedDefaults(f.ctx, alice)
	require.NoError(t, err)
	assert.Len(t, created, len(models.DefaultCategories())-1)

	again, err := f.svc.Categories.SeedDefaults(f.ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, again)

	for _, c := range created {
		require.NotNil(t, c.UserID)
		assert.Equal(t, alice, *c.UserID)
	}

	all, err := f.svc.Categories.ListCategories(f.ctx, bob, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCategories_SeedDefaultsSkipsShared(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.uow.GetCategoryRepository().Create(f.ctx,
		models.NewSharedCategory("Salary", "", models.CategoryTypeIncome, "")))

	created, err := f.svc.Categories.SeedDefaults(f.ctx, alice)
	require.NoError(t, err)
	assert.Len(t, created, len(models.DefaultCategories())-1)
	for _, c := range created {
		assert.NotEqual(t, "Salary", c.Name)
	}

	salaries := 0
	all, err := f.svc.Categories.ListCategories(f.ctx, alice, models.CategoryTypeIncome)
	require.NoError(t, err)
	for _, c := range all {
		if c.Name == "Salary" {
			salaries++
			assert.True(t, c.IsShared())
		}
	}
	assert.Equal(t, 1, salaries)
}

func TestBudgetGoals_Rules(t *testing.T) {
	f := newFixture(t)
	food := f.category(t, alice, "Food", models.CategoryTypeExpense, "0")
	salary := f.category(t, alice, "Salary", models.CategoryTypeIncome, "0")

	goal, err := f.svc.BudgetGoals.CreateBudgetGoal(f.ctx, alice, usecases.CreateBudgetGoalInput{
		Month: 10, Year: 2026, CategoryID: food.ID, Amount: money("300"),
	})
	require.NoError(t, err)

	_, err = f.svc.BudgetGoals.CreateBudgetGoal(f.ctx, alice, usecases.CreateBudgetGoalInput{
		Month: 10, Year: 2026, CategoryID: food.ID, Amount: money("100"),
	})
	assert.Contains(t, fieldErrors(t, err), "non_field_errors")

	overall, err := f.svc.BudgetGoals.CreateBudgetGoal(f.ctx, alice, usecases.CreateBudgetGoalInput{
		Month: 10, Year: 2026, Amount: money("1000"),
	})
	require.NoError(t, err)
	assert.True(t, overall.IsOverall())

	_, err = f.svc.BudgetGoals.CreateBudgetGoal(f.ctx, alice, usecases.CreateBudgetGoalInput{
		Month: 10, Year: 2026, Amount: money("2000"),
	})
	assert.Contains(t, fieldErrors(t, err), "non_field_errors")

	_, err = f.svc.BudgetGoals.CreateBudgetGoal(f.ctx, alice, usecases.CreateBudgetGoalInput{
		Month: 13, Year: 1999, CategoryID: salary.ID, Amount: money("0"),
	})
	fields := fieldErrors(t, err)
	for _, field := range []string{"month", "year", "amount", "category"} {
		assert.Contains(t, fields, field)
	}

	_, err = f.svc.BudgetGoals.CreateBudgetGoal(f.ctx, bob, usecases.CreateBudgetGoalInput{
		Month: 10, Year: 2026, CategoryID: food.ID, Amount: money("5"),
	})
	assert.True(t, errors.Is(err, models.ErrNotFound))

	november := 11
	amount := money("350")
	moved, err := f.svc.BudgetGoals.UpdateBudgetGoal(f.ctx, alice, goal.ID, usecases.UpdateBudgetGoalInput{Month: &november, Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, 11, moved.Month)

	noCategory := ""
	_, err = f.svc.BudgetGoals.UpdateBudgetGoal(f.ctx, alice, goal.ID, usecases.UpdateBudgetGoalInput{CategoryID: &noCategory})
	require.NoError(t, err)

	october := 10
	_, err = f.svc.BudgetGoals.UpdateBudgetGoal(f.ctx, alice, goal.ID, usecases.UpdateBudgetGoalInput{Month: &october})
	assert.Contains(t, fieldErrors(t, err), "non_field_errors")

	goals, err := f.svc.BudgetGoals.ListBudgetGoals(f.ctx, alice, 0, 2026)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, 11, goals[0].Month)

	require.NoError(t, f.svc.BudgetGoals.DeleteBudgetGoal(f.ctx, alice, goal.ID))
	_, err = f.svc.BudgetGoals.GetBudgetGoal(f.ctx, alice, goal.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
