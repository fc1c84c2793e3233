// Package model defines domain types for paycycle expenses, salary and reports.
package model

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the civil date format used for every stored date.
const DateLayout = "2006-01-02"

// Expense categories. Anything else is reported as CategoryOther.
const (
	CategoryFood      = "Food"
	CategoryHousing   = "Housing"
	CategoryTransport = "Transport"
	CategoryLeisure   = "Leisure"
	CategoryHealth    = "Health"
	CategoryEducation = "Education"
	CategoryClothing  = "Clothing"
	CategoryOther     = "Other"
)

// Categories lists the fixed category set in display order.
var Categories = []string{
	CategoryFood,
	CategoryHousing,
	CategoryTransport,
	CategoryLeisure,
	CategoryHealth,
	CategoryEducation,
	CategoryClothing,
	CategoryOther,
}

var (
	ErrInvalidExpense   = errors.New("invalid expense")
	ErrInvalidAmount    = errors.New("amount must be a non-negative number")
	ErrInvalidDate      = errors.New("date must be YYYY-MM-DD")
	ErrEmptyDescription = errors.New("description is required")
)

// Expense is a single spend record. Date is a civil date (DateLayout) and is
// never shifted by timezone conversion.
type Expense struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	Date        string
	Category    string
	CreatedAt   time.Time
}

// Validate reports the first problem that would keep the expense out of the store.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if e.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// CategoryOrOther returns the expense category, or CategoryOther when empty.
func (e Expense) CategoryOrOther() string {
	c := strings.TrimSpace(e.Category)
	if c == "" {
		return CategoryOther
	}
	return c
}

// IsKnownCategory reports whether c is one of the fixed categories.
func IsKnownCategory(c string) bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}
