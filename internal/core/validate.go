package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ValidationError names the offending field of a rejected intake request.
// The API boundary maps it to a client-visible 400; invalid input is never
// silently coerced.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ExpenseIntake is the raw, untrusted shape of an expense submission.
// Amount arrives as a string so the parser controls rounding and rejects
// non-finite values instead of trusting float decoding.
type ExpenseIntake struct {
	Amount            string
	Category          string
	Subcategory       string
	Description       string
	Date              time.Time
	IsBusinessExpense bool
	IsNecessary       *bool
	Tags              []string
}

// IncomeIntake is the raw, untrusted shape of an income submission.
type IncomeIntake struct {
	Amount      string
	SourceType  string
	Frequency   string
	Description string
	Date        time.Time
	IsRecurring *bool
}

// ValidateExpense checks and normalizes an expense submission, applying
// the documented defaults (isNecessary true when unspecified). On any
// violation it returns a ValidationError naming the field and no record.
func ValidateExpense(in ExpenseIntake) (ExpenseRecord, error) {
	cents, err := ParseDecimalToCents(in.Amount)
	if err != nil {
		return ExpenseRecord{}, &ValidationError{Field: "amount", Reason: "must be a positive decimal number"}
	}
	if strings.TrimSpace(in.Category) == "" {
		return ExpenseRecord{}, &ValidationError{Field: "category", Reason: "is required"}
	}
	if in.Date.IsZero() {
		return ExpenseRecord{}, &ValidationError{Field: "date", Reason: "is required"}
	}

	rec := ExpenseRecord{
		Amount:            Money{Cents: cents},
		Category:          strings.TrimSpace(in.Category),
		Subcategory:       strings.TrimSpace(in.Subcategory),
		Description:       strings.TrimSpace(in.Description),
		Date:              in.Date,
		IsBusinessExpense: in.IsBusinessExpense,
		IsNecessary:       true,
		Tags:              in.Tags,
	}
	if in.IsNecessary != nil {
		rec.IsNecessary = *in.IsNecessary
	}
	return rec, nil
}

// ValidateIncome checks and normalizes an income submission. Frequency
// defaults to monthly and isRecurring to true, matching the account
// schema defaults.
func ValidateIncome(in IncomeIntake) (IncomeRecord, error) {
	cents, err := ParseDecimalToCents(in.Amount)
	if err != nil {
		return IncomeRecord{}, &ValidationError{Field: "amount", Reason: "must be a positive decimal number"}
	}
	source := SourceType(strings.TrimSpace(in.SourceType))
	if source == "" {
		return IncomeRecord{}, &ValidationError{Field: "sourceType", Reason: "is required"}
	}
	if !source.Valid() {
		return IncomeRecord{}, &ValidationError{Field: "sourceType", Reason: "must be one of salary, business, freelance, investment, rental, other"}
	}
	freq := Frequency(strings.TrimSpace(in.Frequency))
	if freq == "" {
		freq = FrequencyMonthly
	}
	if !freq.Valid() {
		return IncomeRecord{}, &ValidationError{Field: "frequency", Reason: "must be one of monthly, weekly, yearly, one-time"}
	}
	if in.Date.IsZero() {
		return IncomeRecord{}, &ValidationError{Field: "date", Reason: "is required"}
	}

	rec := IncomeRecord{
		SourceType:  source,
		Amount:      Money{Cents: cents},
		Frequency:   freq,
		IsRecurring: true,
		Date:        in.Date,
		Description: strings.TrimSpace(in.Description),
	}
	if in.IsRecurring != nil {
		rec.IsRecurring = *in.IsRecurring
	}
	return rec, nil
}
