package repositories

import (
	"context"
)

// UnitOfWork represents a transactional unit of work
type UnitOfWork interface {
	// RunInTransaction executes fn in a transaction and commits or rolls back
	// automatically based on its result. Repositories called with the ctx passed
	// to fn take part in the transaction; a nested call joins the outer one.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// GetWalletRepository returns the wallet repository
	GetWalletRepository() WalletRepository

	// GetCategoryRepository returns the category repository
	GetCategoryRepository() CategoryRepository

	// GetTransactionRepository returns the transaction repository
	GetTransactionRepository() TransactionRepository

	// GetBudgetGoalRepository returns the budget goal repository
	GetBudgetGoalRepository() BudgetGoalRepository

	// GetRecurringBillRepository returns the recurring bill repository
	GetRecurringBillRepository() RecurringBillRepository
}
