package sqlite

import (
	"context"

	"github.com/ZanzyTHEbar/spendr-go/domain/repositories"
	"github.com/pocketbase/dbx"
)

// UnitOfWork implements repositories.UnitOfWork on top of dbx transactions
type UnitOfWork struct {
	db              *dbx.DB
	walletRepo      *WalletRepository
	categoryRepo    *CategoryRepository
	transactionRepo *TransactionRepository
	budgetGoalRepo  *BudgetGoalRepository
	billRepo        *RecurringBillRepository
}

// NewUnitOfWork creates a unit of work whose repositories share db
func NewUnitOfWork(db *dbx.DB) *UnitOfWork {
	return &UnitOfWork{
		db:              db,
		walletRepo:      NewWalletRepository(db),
		categoryRepo:    NewCategoryRepository(db),
		transactionRepo: NewTransactionRepository(db),
		budgetGoalRepo:  NewBudgetGoalRepository(db),
		billRepo:        NewRecurringBillRepository(db),
	}
}

// RunInTransaction executes fn in a database transaction.
// The transaction travels in the context handed to fn; returning an error rolls everything back.
func (uow *UnitOfWork) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTransaction(ctx) {
		return fn(ctx)
	}
	return uow.db.TransactionalContext(ctx, nil, func(tx *dbx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// GetWalletRepository returns the wallet repository
func (uow *UnitOfWork) GetWalletRepository() repositories.WalletRepository {
	return uow.walletRepo
}

// GetCategoryRepository returns the category repository
func (uow *UnitOfWork) GetCategoryRepository() repositories.CategoryRepository {
	return uow.categoryRepo
}

// GetTransactionRepository returns the transaction repository
func (uow *UnitOfWork) GetTransactionRepository() repositories.TransactionRepository {
	return uow.transactionRepo
}

// GetBudgetGoalRepository returns the budget goal repository
func (uow *UnitOfWork) GetBudgetGoalRepository() repositories.BudgetGoalRepository {
	return uow.budgetGoalRepo
}

// GetRecurringBillRepository returns the recurring bill repository
func (uow *UnitOfWork) GetRecurringBillRepository() repositories.RecurringBillRepository {
	return uow.billRepo
}
