package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletType defines the type of wallet
type WalletType string

const (
	// WalletTypeCash represents a cash wallet
	WalletTypeCash WalletType = "cash"

	// WalletTypeBank represents a bank account
	WalletTypeBank WalletType = "bank"

	// WalletTypeCreditCard represents a credit card account
	WalletTypeCreditCard WalletType = "credit_card"

	// WalletTypeInvestment represents an investment account
	WalletTypeInvestment WalletType = "investment"

	// WalletTypeCrypto represents a cryptocurrency wallet
	WalletTypeCrypto WalletType = "crypto"

	// WalletTypeOther represents any other store of money
	WalletTypeOther WalletType = "other"
)

// IsValid reports whether t is a known wallet type.
func (t WalletType) IsValid() bool {
	switch t {
	case WalletTypeCash, WalletTypeBank, WalletTypeCreditCard, WalletTypeInvestment, WalletTypeCrypto, WalletTypeOther:
		return true
	}
	return false
}

// Wallet represents a named store of money owned by one user.
// Balance is a cache of OpeningBalance plus the signed sum of the wallet's transactions.
type Wallet struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Balance        decimal.Decimal `json:"balance"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Currency       string          `json:"currency"`
	Type           WalletType      `json:"type"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewWallet creates a new active wallet whose balance starts at openingBalance
func NewWallet(userID, name, description, currency string, walletType WalletType, openingBalance decimal.Decimal) *Wallet {
	if currency == "" {
		currency = DefaultCurrency
	}
	if walletType == "" {
		walletType = WalletTypeCash
	}
	now := time.Now().UTC()
	return &Wallet{
		ID:             uuid.New().String(),
		UserID:         userID,
		Name:           strings.TrimSpace(name),
		Description:    description,
		Balance:        openingBalance,
		OpeningBalance: openingBalance,
		Currency:       strings.ToUpper(currency),
		Type:           walletType,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Validate checks every field of the wallet and reports all problems at once
func (w *Wallet) Validate() error {
	ve := &ValidationError{}

	checkName(ve, "name", w.Name)
	checkNonNegative(ve, "balance", w.Balance)
	checkNonNegative(ve, "opening_balance", w.OpeningBalance)

	if !IsSupportedCurrency(w.Currency) {
		ve.Add("currency", "\""+w.Currency+"\" is not a supported currency")
	}
	if !w.Type.IsValid() {
		ve.Add("type", "\""+string(w.Type)+"\" is not a valid wallet type")
	}

	return ve.OrNil()
}

// HasSufficientBalance checks if the wallet has sufficient balance for a withdrawal
func (w *Wallet) HasSufficientBalance(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}
