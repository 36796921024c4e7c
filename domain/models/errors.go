package models

import (
	"errors"
	"fmt"
)

// Domain error types
var (
	// ErrValidation is matched by every *ValidationError
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when an entity does not exist or belongs to another user
	ErrNotFound = errors.New("not found")

	// ErrWalletNotFound is returned when a wallet is not found
	ErrWalletNotFound = fmt.Errorf("wallet %w", ErrNotFound)

	// ErrCategoryNotFound is returned when a category is not found
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)

	// ErrTransactionNotFound is returned when a transaction is not found
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)

	// ErrBudgetGoalNotFound is returned when a budget goal is not found
	ErrBudgetGoalNotFound = fmt.Errorf("budget goal %w", ErrNotFound)

	// ErrRecurringBillNotFound is returned when a recurring bill is not found
	ErrRecurringBillNotFound = fmt.Errorf("recurring bill %w", ErrNotFound)

	// ErrInsufficientFunds is returned when a transfer exceeds the source wallet balance
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidTarget is returned when a transfer targets its own source or a wallet the caller does not own
	ErrInvalidTarget = errors.New("invalid transfer target")

	// ErrDuplicate is returned by storage when a uniqueness constraint is violated
	ErrDuplicate = errors.New("duplicate entry")

	// ErrCategoryInUse is returned when a category still has transactions attached
	ErrCategoryInUse = errors.New("category is referenced by transactions")

	// ErrSharedCategoryReadOnly is returned when a user tries to modify a shared category
	ErrSharedCategoryReadOnly = errors.New("shared categories cannot be modified")

	// ErrInternal is matched by every *InternalError
	ErrInternal = errors.New("internal error")
)

// InternalError wraps a storage or infrastructure failure.
type InternalError struct {
	Op  string
	Err error
}

// Internal wraps err as an internal failure of op.
func Internal(op string, err error) error {
	return &InternalError{Op: op, Err: err}
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: internal error: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

func (e *InternalError) Is(target error) bool {
	return target == ErrInternal
}

// IsDomainError reports whether err belongs to the client-facing taxonomy
// (validation, not found, insufficient funds, invalid target).
func IsDomainError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInvalidTarget)
}
