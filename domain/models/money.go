package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxNameLength bounds wallet, category and bill names.
const MaxNameLength = 100

// DateLayout is the calendar date format used for transaction dates and filters.
const DateLayout = "2006-01-02"

// DefaultCurrency is used when a wallet is created without a currency.
const DefaultCurrency = "PHP"

var currencySymbols = map[string]string{
	"PHP": "₱",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"AUD": "A$",
	"CAD": "C$",
	"SGD": "S$",
}

// SupportedCurrencies lists the accepted wallet currency codes.
func SupportedCurrencies() []string {
	return []string{"PHP", "USD", "EUR", "GBP", "JPY", "AUD", "CAD", "SGD"}
}

// IsSupportedCurrency reports whether code is an accepted currency code.
func IsSupportedCurrency(code string) bool {
	_, ok := currencySymbols[code]
	return ok
}

// CurrencySymbol returns the display symbol for code, or the code itself.
func CurrencySymbol(code string) string {
	if s, ok := currencySymbols[code]; ok {
		return s
	}
	return code
}

// HasCents reports whether d has at most two decimal places.
func HasCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(2))
}

// ToCents converts a 2dp amount to integer minor units.
func ToCents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

// FromCents converts integer minor units to a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Round2 rounds a monetary aggregate for output.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// MonthWindow returns the first and last calendar day of the given month.
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return start, end
}
