package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FieldError is a single client-correctable problem with one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field problem found for one request.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

// Add records a problem with field.
func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// Merge appends the field errors of err when it is a *ValidationError.
// Any other non-nil error is recorded under the "non_field_errors" key.
func (e *ValidationError) Merge(err error) {
	if err == nil {
		return
	}
	if ve, ok := err.(*ValidationError); ok {
		e.Errors = append(e.Errors, ve.Errors...)
		return
	}
	e.Add("non_field_errors", err.Error())
}

// HasErrors reports whether at least one problem was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// Has reports whether field has at least one problem.
func (e *ValidationError) Has(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Fields returns the problems keyed by field; messages of the same field are joined.
func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		if prev, ok := out[fe.Field]; ok {
			out[fe.Field] = prev + "; " + fe.Message
			continue
		}
		out[fe.Field] = fe.Message
	}
	return out
}

// OrNil returns e as an error when it holds problems, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError holding a single problem.
func NewValidationError(field, message string) *ValidationError {
	ve := &ValidationError{}
	ve.Add(field, message)
	return ve
}

// checkAmount records problems with a strictly positive money amount.
func checkAmount(ve *ValidationError, field string, amount decimal.Decimal) {
	if !amount.IsPositive() {
		ve.Add(field, "must be greater than 0")
		return
	}
	if !HasCents(amount) {
		ve.Add(field, "must have at most 2 decimal places")
	}
}

// checkNonNegative records problems with a money amount that may be zero.
func checkNonNegative(ve *ValidationError, field string, amount decimal.Decimal) {
	if amount.IsNegative() {
		ve.Add(field, "must be greater than or equal to 0")
		return
	}
	if !HasCents(amount) {
		ve.Add(field, "must have at most 2 decimal places")
	}
}

func checkName(ve *ValidationError, field, name string) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		ve.Add(field, "this field is required")
	case len(name) > MaxNameLength:
		ve.Add(field, "must be at most 100 characters")
	}
}
