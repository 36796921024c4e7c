package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType defines the type of transaction
type TransactionType string

const (
	// TransactionTypeIncome represents an income transaction
	TransactionTypeIncome TransactionType = "income"

	// TransactionTypeExpense represents an expense transaction
	TransactionTypeExpense TransactionType = "expense"

	// TransactionTypeTransfer represents a transfer between wallets
	TransactionTypeTransfer TransactionType = "transfer"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	}
	return false
}

// DefaultTransferDescription is used when a transfer is requested without a description.
const DefaultTransferDescription = "Funds Transfer"

// Transaction represents one entry of a wallet's ledger.
// RelatedTransactionID links the two legs of a transfer to each other.
type Transaction struct {
	ID                   string          `json:"id"`
	UserID               string          `json:"user_id"`
	WalletID             string          `json:"wallet_id"`
	CategoryID           *string         `json:"category_id,omitempty"`
	RelatedTransactionID *string         `json:"related_transaction_id,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	Type                 TransactionType `json:"type"`
	Date                 time.Time       `json:"date"`
	Description          string          `json:"description"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// NewTransaction creates a new transaction with defaults
func NewTransaction(userID, walletID string, categoryID *string, amount decimal.Decimal, txType TransactionType, date time.Time, description string) *Transaction {
	now := time.Now().UTC()
	return &Transaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		WalletID:    walletID,
		CategoryID:  categoryID,
		Amount:      amount,
		Type:        txType,
		Date:        DateOnly(date),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsTransferLeg reports whether the transaction is one side of a transfer pair.
func (t *Transaction) IsTransferLeg() bool {
	return t.RelatedTransactionID != nil
}

// SignedAmount is the effect of the transaction on its wallet balance.
func (t *Transaction) SignedAmount() decimal.Decimal {
	switch t.Type {
	case TransactionTypeIncome:
		return t.Amount
	case TransactionTypeExpense:
		return t.Amount.Neg()
	default:
		return decimal.Zero
	}
}

// Validate checks the transaction fields against today's date.
// Cross-entity rules (wallet ownership, category type) are checked by the caller.
func (t *Transaction) Validate(today time.Time) error {
	ve := &ValidationError{}

	checkAmount(ve, "amount", t.Amount)

	if !t.Type.IsValid() {
		ve.Add("type", "must be one of income, expense, transfer")
	}
	if t.WalletID == "" {
		ve.Add("wallet", "this field is required")
	}

	if t.Date.IsZero() {
		ve.Add("date", "this field is required")
	} else if t.Type != TransactionTypeTransfer && DateOnly(t.Date).After(DateOnly(today)) {
		ve.Add("date", "transaction date cannot be in the future")
	}

	switch {
	case t.Type == TransactionTypeTransfer:
		if t.CategoryID != nil {
			ve.Add("category", "transfer transactions cannot have a category")
		}
		if t.RelatedTransactionID == nil {
			ve.Add("related_transaction", "transfer transactions must be linked to their paired transaction")
		}
	case t.IsTransferLeg():
		if t.CategoryID != nil {
			ve.Add("category", "transfer legs cannot have a category")
		}
		if *t.RelatedTransactionID == t.ID {
			ve.Add("related_transaction", "a transaction cannot be linked to itself")
		}
	case t.Type.IsValid():
		if t.CategoryID == nil || *t.CategoryID == "" {
			ve.Add("category", "income and expense transactions must have a category")
		}
	}

	return ve.OrNil()
}

// ValidateTransferPair checks that out and in form a mutually linked transfer.
func ValidateTransferPair(out, in *Transaction) error {
	ve := &ValidationError{}

	if out.RelatedTransactionID == nil || *out.RelatedTransactionID != in.ID ||
		in.RelatedTransactionID == nil || *in.RelatedTransactionID != out.ID {
		ve.Add("related_transaction", "transfer legs must reference each other")
	}
	if out.WalletID == in.WalletID {
		ve.Add("to_wallet", "cannot transfer funds to the same wallet")
	}
	if out.UserID != in.UserID {
		ve.Add("to_wallet", "transfer legs must belong to the same user")
	}
	if !out.Amount.Equal(in.Amount) {
		ve.Add("amount", "transfer legs must carry the same amount")
	}
	if out.SignedAmount().Add(in.SignedAmount()).Sign() != 0 {
		ve.Add("type", "transfer legs must have opposite types")
	}

	return ve.OrNil()
}
