package usecases

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ZanzyTHEbar/spendr-go/domain/models"
	"github.com/ZanzyTHEbar/spendr-go/domain/repositories"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const (
	recentTransactionLimit = 5
	nearLimitPercent       = 80
)

var hundred = decimal.NewFromInt(100)

// CategorySpending is the month's expense total for one category.
type CategorySpending struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// CategoryBudget compares a category's spending with its goal for the month.
type CategoryBudget struct {
	CategoryID         string          `json:"category_id"`
	CategoryName       string          `json:"category_name"`
	GoalAmount         decimal.Decimal `json:"goal_amount"`
	SpentAmount        decimal.Decimal `json:"spent_amount"`
	ProgressPercentage decimal.Decimal `json:"progress_percentage"`
	IsOverbudget       bool            `json:"is_overbudget"`
}

// DashboardSummary is the monthly overview of one user's finances.
type DashboardSummary struct {
	TotalBalance          decimal.Decimal       `json:"total_balance"`
	IncomeThisMonth       decimal.Decimal       `json:"income_this_month"`
	ExpenseThisMonth      decimal.Decimal       `json:"expense_this_month"`
	NetBalanceThisMonth   decimal.Decimal       `json:"net_balance_this_month"`
	SpendingByCategory    []CategorySpending    `json:"spending_by_category"`
	Wallets               []*models.Wallet      `json:"wallets"`
	RecentTransactions    []*models.Transaction `json:"recent_transactions"`
	CurrentMonth          string                `json:"current_month_str"`
	CurrentMonthNum       int                   `json:"current_month_num"`
	CurrentYear           int                   `json:"current_year"`
	OverallBudgetGoal     decimal.Decimal       `json:"overall_budget_goal"`
	OverallBudgetProgress decimal.Decimal       `json:"overall_budget_progress"`
	BudgetGoalsProgress   []CategoryBudget      `json:"budget_goals_progress"`
	UpcomingBills         []UpcomingBill        `json:"upcoming_bills"`
	Alerts                []string              `json:"alerts"`
}

// MonthlySummary is one calendar month of income and expense totals.
type MonthlySummary struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// DashboardService computes read-only budget views.
type DashboardService struct {
	service
	group singleflight.Group
}

func newDashboardService(base service) *DashboardService {
	return &DashboardService{service: base}
}

// GetDashboardSummary builds the overview for the month containing today.
// A zero today means the service clock's current day. Concurrent calls for the same user and day share one computation.
func (s *DashboardService) GetDashboardSummary(ctx context.Context, userID string, today time.Time) (*DashboardSummary, error) {
	if today.IsZero() {
		today = s.today()
	}
	today = models.DateOnly(today)

	key := userID + "|" + today.Format(models.DateLayout)
	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		// detached so one caller giving up does not fail the others waiting on this key
		return s.buildSummary(context.WithoutCancel(ctx), userID, today)
	})
	if err != nil {
		return nil, fail("GetDashboardSummary", err)
	}

	logger := s.logger("GetDashboardSummary")
	logger.Debug().Str("user", userID).Bool("shared", shared).Msg("Dashboard computed")
	return v.(*DashboardSummary).Clone(), nil
}

// Clone returns a copy that shares no slices or records with s.
func (s *DashboardSummary) Clone() *DashboardSummary {
	out := *s
	out.SpendingByCategory = slices.Clone(s.SpendingByCategory)
	out.BudgetGoalsProgress = slices.Clone(s.BudgetGoalsProgress)
	out.UpcomingBills = slices.Clone(s.UpcomingBills)
	out.Alerts = slices.Clone(s.Alerts)
	if s.Wallets != nil {
		out.Wallets = make([]*models.Wallet, len(s.Wallets))
		for i, w := range s.Wallets {
			w := *w
			out.Wallets[i] = &w
		}
	}
	if s.RecentTransactions != nil {
		out.RecentTransactions = make([]*models.Transaction, len(s.RecentTransactions))
		for i, tx := range s.RecentTransactions {
			tx := *tx
			out.RecentTransactions[i] = &tx
		}
	}
	return &out
}

func (s *DashboardService) buildSummary(ctx context.Context, userID string, today time.Time) (*DashboardSummary, error) {
	start, end := models.MonthWindow(today.Year(), today.Month())
	summary := &DashboardSummary{
		CurrentMonth:    today.Format("January 2006"),
		CurrentMonthNum: int(today.Month()),
		CurrentYear:     today.Year(),
	}

	err := s.uow.RunInTransaction(ctx, func(ctx context.Context) error {
		wallets := s.uow.GetWalletRepository()
		categories := s.uow.GetCategoryRepository()
		transactions := s.uow.GetTransactionRepository()

		total, err := wallets.TotalBalance(ctx, userID)
		if err != nil {
			return err
		}
		summary.TotalBalance = models.Round2(total)

		income, expense, err := transactions.SumByType(ctx, userID, start, end)
		if err != nil {
			return err
		}
		summary.IncomeThisMonth = models.Round2(income)
		summary.ExpenseThisMonth = models.Round2(expense)
		summary.NetBalanceThisMonth = models.Round2(income.Sub(expense))

		summary.Wallets, err = wallets.FindAll(ctx, repositories.WalletFilter{UserID: userID})
		if err != nil {
			return err
		}

		summary.RecentTransactions, err = transactions.FindAll(ctx, repositories.TransactionFilter{
			UserID: userID,
			Limit:  recentTransactionLimit,
		})
		if err != nil {
			return err
		}

		goals, err := s.uow.GetBudgetGoalRepository().FindAll(ctx, repositories.BudgetGoalFilter{
			UserID: userID,
			Month:  int(today.Month()),
			Year:   today.Year(),
		})
		if err != nil {
			return err
		}
		var overallGoal *decimal.Decimal
		categoryGoals := make(map[string]decimal.Decimal)
		for _, goal := range goals {
			if goal.IsOverall() {
				amount := goal.Amount
				overallGoal = &amount
				continue
			}
			categoryGoals[*goal.CategoryID] = goal.Amount
		}

		if overallGoal != nil {
			summary.OverallBudgetGoal = models.Round2(*overallGoal)
		} else {
			sum, err := categories.SumMonthlyBudgets(ctx, userID)
			if err != nil {
				return err
			}
			summary.OverallBudgetGoal = models.Round2(sum)
		}
		summary.OverallBudgetProgress = progress(summary.ExpenseThisMonth, summary.OverallBudgetGoal)

		expenseCategories, err := categories.FindAll(ctx, repositories.CategoryFilter{
			UserID: userID,
			Type:   models.CategoryTypeExpense,
		})
		if err != nil {
			return err
		}
		spentBy, err := transactions.SumByCategory(ctx, userID, start, end)
		if err != nil {
			return err
		}

		summary.SpendingByCategory = make([]CategorySpending, 0, len(expenseCategories))
		summary.BudgetGoalsProgress = make([]CategoryBudget, 0, len(expenseCategories))
		for _, category := range expenseCategories {
			spent := models.Round2(spentBy[category.ID])
			goal, ok := categoryGoals[category.ID]
			if !ok {
				goal = category.MonthlyBudget
			}
			goal = models.Round2(goal)

			summary.SpendingByCategory = append(summary.SpendingByCategory, CategorySpending{
				CategoryID:   category.ID,
				CategoryName: category.Name,
				TotalAmount:  spent,
			})
			summary.BudgetGoalsProgress = append(summary.BudgetGoalsProgress, CategoryBudget{
				CategoryID:         category.ID,
				CategoryName:       category.Name,
				GoalAmount:         goal,
				SpentAmount:        spent,
				ProgressPercentage: progress(spent, goal),
				IsOverbudget:       goal.IsPositive() && spent.GreaterThan(goal),
			})
		}

		summary.UpcomingBills, err = upcomingBills(ctx, s.uow, userID, today)
		if err != nil {
			return err
		}

		walletCount, err := wallets.Count(ctx, userID)
		if err != nil {
			return err
		}
		categoryCount, err := categories.Count(ctx, userID)
		if err != nil {
			return err
		}
		txCount, err := transactions.Count(ctx, userID, start, end)
		if err != nil {
			return err
		}

		summary.Alerts = s.alerts(summary, walletCount, categoryCount, txCount)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// alerts lists budget warnings first, then hints about missing data.
func (s *DashboardService) alerts(summary *DashboardSummary, walletCount, categoryCount, txCount int64) []string {
	symbol := models.CurrencySymbol(s.opts.currency)
	alerts := []string{}

	overall := summary.OverallBudgetGoal
	if overall.IsPositive() && summary.ExpenseThisMonth.GreaterThan(overall) {
		alerts = append(alerts, fmt.Sprintf("Heads up! You've overspent your overall monthly budget by %s.",
			formatMoney(symbol, summary.ExpenseThisMonth.Sub(overall))))
	}

	for _, budget := range summary.BudgetGoalsProgress {
		switch {
		case budget.IsOverbudget:
			alerts = append(alerts, fmt.Sprintf("Alert! You've overspent on %s by %s.",
				budget.CategoryName, formatMoney(symbol, budget.SpentAmount.Sub(budget.GoalAmount))))
		case budget.ProgressPercentage.GreaterThan(decimal.NewFromInt(nearLimitPercent)):
			alerts = append(alerts, fmt.Sprintf("You're almost at your %s budget limit (%s%% used).",
				budget.CategoryName, budget.ProgressPercentage.StringFixed(1)))
		}
	}

	if walletCount == 0 {
		alerts = append(alerts, "You haven't added any wallets yet! Add one to start tracking your money.")
	}
	if categoryCount == 0 {
		alerts = append(alerts, "No categories found. Create some expense and income categories to organize your transactions.")
	}
	if txCount == 0 {
		alerts = append(alerts, fmt.Sprintf("No transactions recorded for %s yet. Start adding your income and expenses!", summary.CurrentMonth))
	}

	return alerts
}

// GetMonthlySummary returns income and expense totals per calendar month, oldest first.
func (s *DashboardService) GetMonthlySummary(ctx context.Context, userID string) ([]MonthlySummary, error) {
	totals, err := s.uow.GetTransactionRepository().MonthlyTotals(ctx, userID)
	if err != nil {
		return nil, fail("GetMonthlySummary", err)
	}

	out := make([]MonthlySummary, 0, len(totals))
	for _, t := range totals {
		out = append(out, MonthlySummary{
			Month:   t.Month,
			Income:  models.Round2(t.Income),
			Expense: models.Round2(t.Expense),
		})
	}
	return out, nil
}

// progress is spent as a percentage of goal. Without a goal any spending counts as 100%.
func progress(spent, goal decimal.Decimal) decimal.Decimal {
	switch {
	case goal.IsPositive():
		return spent.Div(goal).Mul(hundred).Round(2)
	case spent.IsPositive():
		return hundred
	}
	return decimal.Zero
}
