package usecases_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/ZanzyTHEbar/spendr-go/domain/usecases"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard_EmptyUser(t *testing.T) {
	f := newFixture(t)

	summary, err := f.svc.Dashboard.GetDashboardSummary(f.ctx, alice, testNow)
	require.NoError(t, err)

	assert.True(t, summary.TotalBalance.IsZero())
	assert.True(t, summary.OverallBudgetGoal.IsZero())
	assert.True(t, summary.OverallBudgetProgress.IsZero())
	assert.Equal(t, "October 2026", summary.CurrentMonth)
	assert.Equal(t, 10, summary.CurrentMonthNum)
	assert.Equal(t, 2026, summary.CurrentYear)
	assert.Empty(t, summary.SpendingByCategory)
	assert.Empty(t, summary.UpcomingBills)
	assert.Equal(t, []string{
		"You haven't added any wallets yet! Add one to start tracking your money.",
		"No categories found. Create some expense and income categories to organize your transactions.",
		"No transactions recorded for October 2026 yet. Start adding your income and expenses!",
	}, summary.Alerts)
}

func TestDashboard_FoodScenario(t *testing.T) {
	f := newFixture(t)
	cash := f.wallet(t, alice, "Cash", "1000")
	food := f.category(t, alice, "Food", models.CategoryTypeExpense, "300")

	f.record(t, alice, cash, food, "100", models.TransactionTypeExpense, "2026-10-05")

	summary, err := f.svc.Dashboard.GetDashboardSummary(f.ctx, alice, testNow)
	require.NoError(t, err)

	require.Len(t, summary.BudgetGoalsProgress, 1)
	progress := summary.BudgetGoalsProgress[0]
	assertMoney(t, "300", progress.GoalAmount)
	assertMoney(t, "100", progress.SpentAmount)
	assertMoney(t, "33.33", progress.ProgressPercentage)
	assert.False(t, progress.IsOverbudget)
	assertMoney(t, "300", summary.OverallBudgetGoal)
	assertMoney(t, "33.33", summary.OverallBudgetProgress)
	assert.Empty(t, summary.Alerts)

	f.record(t, alice, cash, food, "250", models.TransactionTypeExpense, "2026-10-12")

	summary, err = f.svc.Dashboard.GetDashboardSummary(f.ctx, alice, testNow)
	require.NoError(t, err)

	progress = summary.BudgetGoalsProgress[0]
	assertMoney(t, "350", progress.SpentAmount)
	assertMoney(t, "116.67", progress.ProgressPercentage)
	assert.True(t, progress.IsOverbudget)
	assertMoney(t, "650", summary.TotalBalance)
	assertMoney(t, "350", summary.ExpenseThisMonth)
	assertMoney(t, "-350", summary.NetBalanceThisMonth)
	assert.Equal(t, []string{
		"Heads up! You've overspent your overall monthly budget by ₱50.00.",
		"Alert! You've overspent on Food by ₱50.00.",
	}, summary.Alerts)
}

func TestDashboard_NearLimitAlert(t *testing.T) {
	f := newFixture(t)
	cash := f.wallet(t, alice, "Cash", "1000")
	food := f.category(t, alice, "Food", models.CategoryTypeExpense, "200")
	f.category(t, alice, "Rent", models.CategoryTypeExpense, "800")

	f.record(t, alice, cash, food, "170", models.TransactionTypeExpense, "2026-10-05")

	summary, err := f.svc.Dashboard.GetDashboardSummary(f.ctx, alice, testNow)
	require.NoError(t, err)

	assertMoney(t, "1000", summary.OverallBudgetGoal)
	assertMoney(t, "17", summary.OverallBudgetProgress)
	assert.Equal(t, []string{"You're almost at your Food budget limit (85.0% used)."}, summary.Alerts)

	names := []string{}
	for _, s := range summary.SpendingByCategory {
		names = append(names, s.CategoryName)
	}
	assert.Equal(t, []string{"Food", "Rent"}, names)
}

func TestDashboard_ExplicitGoalsOverrideDefaults(t *testing.T) {
	f := newFixture(t)
	cash := f.wallet(t, alice, "Cash", "1000")
	food := f.category(t, alice, "Food", models.CategoryTypeExpense, "300")
	fun := f.category(t, alice, "Fun", models.CategoryTypeExpense, "0")

	_, err := f.svc.BudgetGoals.CreateBudgetGoal(f.ctx, alice, usecases.CreateBudgetGoalInput{
		Month: 10, Year: 2026, Amount: money("100"),
	})
	require.NoError(t, err)
	_, err = f.svc.BudgetGoals.CreateBudgetGoal(f.ctx, alice, usecases.CreateBudgetGoalInput{
		Month: 10, Year: 2026, CategoryID: food.ID, Amount: money("50"),
	})
	require.NoError(t, err)
	// a goal for another month plays no part
	_, err = f.svc.BudgetGoals.CreateBudgetGoal(f.ctx, alice, usecases.CreateBudgetGoalInput{
		Month: 9, Year: 2026, CategoryID: food.ID, Amount: money("5000"),
	})
	require.NoError(t, err)

	f.record(t, alice, cash, food, "60", models.TransactionTypeExpense, "2026-10-02")
	f.record(t, alice, cash, fun, "70", models.TransactionTypeExpense, "2026-10-03")
	f.record(t, alice, cash, fun, "999", models.TransactionTypeExpense, "2026-09-30")

	summary, err := f.svc.Dashboard.GetDashboardSummary(f.ctx, alice, testNow)
	require.NoError(t, err)

	assertMoney(t, "100", summary.OverallBudgetGoal)
	assertMoney(t, "130", summary.ExpenseThisMonth)
	assertMoney(t, "130", summary.OverallBudgetProgress)

	byName := map[string]usecases.CategoryBudget{}
	for _, b := range summary.BudgetGoalsProgress {
		byName[b.CategoryName] = b
	}
	assertMoney(t, "50", byName["Food"].GoalAmount)
	assertMoney(t, "120", byName["Food"].ProgressPercentage)
	assert.True(t, byName["Food"].IsOverbudget)

	// no goal and some spending counts as fully used but never as overspent
	assertMoney(t, "100", byName["Fun"].ProgressPercentage)
	assert.False(t, byName["Fun"].IsOverbudget)

	assert.Equal(t, []string{
		"Heads up! You've overspent your overall monthly budget by ₱30.00.",
		"Alert! You've overspent on Food by ₱10.00.",
		"You're almost at your Fun budget limit (100.0% used).",
	}, summary.Alerts)
}

func TestDashboard_RecentTransactionsAndBills(t *testing.T) {
	f := newFixture(t)
	cash := f.wallet(t, alice, "Cash", "5000")
	food := f.category(t, alice, "Food", models.CategoryTypeExpense, "0")

	for i := 1; i <= 7; i++ {
		f.record(t, alice, cash, food, fmt.Sprintf("%d", i), models.TransactionTypeExpense, fmt.Sprintf("2026-10-%02d", i))
	}

	_, err := f.svc.Bills.CreateRecurringBill(f.ctx, alice, usecases.CreateRecurringBillInput{
		Name: "Internet", Amount: money("59.99"), DueDay: 20, CategoryID: food.ID,
	})
	require.NoError(t, err)

	summary, err := f.svc.Dashboard.GetDashboardSummary(f.ctx, alice, testNow)
	require.NoError(t, err)

	require.Len(t, summary.RecentTransactions, 5)
	assert.Equal(t, "2026-10-07", summary.RecentTransactions[0].Date.Format(models.DateLayout))
	assert.Equal(t, "2026-10-03", summary.RecentTransactions[4].Date.Format(models.DateLayout))

	require.Len(t, summary.UpcomingBills, 1)
	assert.Equal(t, "2026-10-20", summary.UpcomingBills[0].DueDate)
	require.NotNil(t, summary.UpcomingBills[0].CategoryName)
	assert.Equal(t, "Food", *summary.UpcomingBills[0].CategoryName)

	require.Len(t, summary.Wallets, 1)
}

func TestDashboard_Idempotent(t *testing.T) {
	f := newFixture(t)
	cash := f.wallet(t, alice, "Cash", "1000")
	food := f.category(t, alice, "Food", models.CategoryTypeExpense, "300")
	f.record(t, alice, cash, food, "100", models.TransactionTypeExpense, "2026-10-05")

	first, err := f.svc.Dashboard.GetDashboardSummary(f.ctx, alice, testNow)
	require.NoError(t, err)
	second, err := f.svc.Dashboard.GetDashboardSummary(f.ctx, alice, testNow)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assertMoney(t, "900", f.balance(t, alice, cash))
}

func TestDashboard_ConcurrentReads(t *testing.T) {
	f := newFixture(t)
	cash := f.wallet(t, alice, "Cash", "1000")
	food := f.category(t, alice, "Food", models.CategoryTypeExpense, "300")
	f.record(t, alice, cash, food, "100", models.TransactionTypeExpense, "2026-10-05")

	var wg sync.WaitGroup
	results := make([]*usecases.DashboardSummary, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.svc.Dashboard.GetDashboardSummary(f.ctx, alice, testNow)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assertMoney(t, "900", results[i].TotalBalance)
	}

	results[0].Wallets[0].Name = "Changed"
	results[0].SpendingByCategory[0].CategoryName = "Changed"
	for _, other := range results[1:] {
		assert.Equal(t, "Cash", other.Wallets[0].Name)
		assert.Equal(t, "Food", other.SpendingByCategory[0].CategoryName)
	}
}

func TestDashboard_CallerCancellationIsDetached(t *testing.T) {
	f := newFixture(t)
	cash := f.wallet(t, alice, "Cash", "1000")
	food := f.category(t, alice, "Food", models.CategoryTypeExpense, "300")
	f.record(t, alice, cash, food, "100", models.TransactionTypeExpense, "2026-10-05")

	ctx, cancel := context.WithCancel(f.ctx)
	cancel()

	summary, err := f.svc.Dashboard.GetDashboardSummary(ctx, alice, testNow)
	require.NoError(t, err)
	assertMoney(t, "900", summary.TotalBalance)

	again, err := f.svc.Dashboard.GetDashboardSummary(f.ctx, alice, testNow)
	require.NoError(t, err)
	assert.Equal(t, summary, again)
	assert.NotSame(t, summary, again)
}

func TestDashboard_OtherUserIsolated(t *testing.T) {
	f := newFixture(t)
	cash := f.wallet(t, bob, "Cash", "1000")
	food := f.category(t, bob, "Food", models.CategoryTypeExpense, "300")
	f.record(t, bob, cash, food, "100", models.TransactionTypeExpense, "2026-10-05")

	summary, err := f.svc.Dashboard.GetDashboardSummary(f.ctx, alice, testNow)
	require.NoError(t, err)
	assert.True(t, summary.TotalBalance.IsZero())
	assert.Empty(t, summary.Wallets)
	assert.Len(t, summary.Alerts, 3)
}

func TestMonthlySummary(t *testing.T) {
	f := newFixture(t)
	cash := f.wallet(t, alice, "Cash", "1000")
	food := f.category(t, alice, "Food", models.CategoryTypeExpense, "0")
	salary := f.category(t, alice, "Salary", models.CategoryTypeIncome, "0")

	f.record(t, alice, cash, salary, "2000", models.TransactionTypeIncome, "2026-09-01")
	f.record(t, alice, cash, food, "120.50", models.TransactionTypeExpense, "2026-09-10")
	f.record(t, alice, cash, food, "80", models.TransactionTypeExpense, "2026-10-02")

	months, err := f.svc.Dashboard.GetMonthlySummary(f.ctx, alice)
	require.NoError(t, err)
	require.Len(t, months, 2)

	assert.Equal(t, "2026-09", months[0].Month)
	assertMoney(t, "2000", months[0].Income)
	assertMoney(t, "120.50", months[0].Expense)
	assert.Equal(t, "2026-10", months[1].Month)
	assert.True(t, months[1].Income.IsZero())
	assertMoney(t, "80", months[1].Expense)
}
