// Package core provides money parsing and formatting utilities.
//
// Amounts travel through the ledger as float64 in a single implicit
// currency. Text inputs (CLI flags, form values) are parsed as decimals
// first so that malformed strings are rejected with the same message as
// non-positive values.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to a positive amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Empty, non-numeric, zero and negative inputs yield a ValidationError.
//
// Examples:
//
//	ParseAmount("12.5")  -> 12.5, nil
//	ParseAmount("12,50") -> 12.5, nil
//	ParseAmount("-3")    -> 0, ValidationError
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return 0, &ValidationError{Message: msgInvalidAmount, Err: ErrInvalidAmount}
	}
	f, _ := d.Float64()
	if err := ValidateAmount(f); err != nil {
		return 0, err
	}
	return f, nil
}

// FormatAmount renders an amount with exactly two decimal places and a
// dollar sign, e.g. "$12.50".
func FormatAmount(a float64) string {
	return fmt.Sprintf("$%.2f", a)
}
