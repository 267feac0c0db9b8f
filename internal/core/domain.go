package core

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

// DateLayout is the only accepted representation of an expense date.
// Range queries compare dates as strings, which is chronological only
// because this layout is fixed-width and zero-padded.
const DateLayout = time.DateOnly

type (
	Category string

	Expense struct {
		ID          int64   `json:"id"`
		Date        string  `json:"date"`
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
		Subcategory *string `json:"subcategory"`
		Note        *string `json:"note"`
	}
)

const (
	Food       Category = "Food"
	Travel     Category = "Travel"
	Transport  Category = "Transport"
	Shopping   Category = "Shopping"
	Bills      Category = "Bills"
	Healthcare Category = "Healthcare"
	Education  Category = "Education"
	Business   Category = "Business"
	Other      Category = "Other"
)

var categories = []Category{Food, Travel, Transport, Shopping, Bills, Healthcare, Education, Business, Other}

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
)

const (
	msgInvalidDate   = "Date must be in YYYY-MM-DD format (e.g., 2024-01-15)"
	msgInvalidAmount = "Amount must be a positive number"
)

// Categories returns the fixed category set in canonical order.
func Categories() []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	return names
}

// IsValid reports whether c is one of the fixed categories. Matching is exact.
func (c Category) IsValid() bool {
	return slices.Contains(categories, c)
}

// ValidateDate accepts only an exact calendar date in YYYY-MM-DD form,
// years 0001 through 9999.
func ValidateDate(s string) error {
	if t, err := time.Parse(DateLayout, s); err != nil || t.Year() < 1 {
		return &ValidationError{Message: msgInvalidDate, Err: ErrInvalidDate}
	}
	return nil
}

// ValidateAmount rejects zero, negative and non-finite amounts.
func ValidateAmount(a float64) error {
	if math.IsNaN(a) || math.IsInf(a, 0) || a <= 0 {
		return &ValidationError{Message: msgInvalidAmount, Err: ErrInvalidAmount}
	}
	return nil
}

func ValidateCategory(c string) error {
	if !Category(c).IsValid() {
		return &ValidationError{
			Message: fmt.Sprintf("Invalid category. Must be one of: %s", strings.Join(Categories(), ", ")),
			Err:     ErrInvalidCategory,
		}
	}
	return nil
}

// Validate checks date, amount and category in that order and returns the
// first failure.
func (e Expense) Validate() error {
	if err := ValidateDate(e.Date); err != nil {
		return err
	}
	if err := ValidateAmount(e.Amount); err != nil {
		return err
	}
	return ValidateCategory(e.Category)
}
