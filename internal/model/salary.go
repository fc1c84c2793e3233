package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPayday is used when no payday has been configured.
const DefaultPayday = 5

// SalaryConfig is the canonical salary configuration.
type SalaryConfig struct {
	BaseSalary       decimal.Decimal
	MonthlyOverrides map[string]decimal.Decimal // keyed by MonthKey
	Payday           int
}

// MonthKey returns the override key for a month (1-12) of a year, e.g. "2024-6".
func MonthKey(year, month int) string {
	return fmt.Sprintf("%d-%d", year, month)
}

// ParseMonthKey splits a MonthKey back into year and month.
func ParseMonthKey(key string) (year, month int, ok bool) {
	if _, err := fmt.Sscanf(key, "%d-%d", &year, &month); err != nil {
		return 0, 0, false
	}
	if month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}

// ChangeType classifies a salary history entry.
type ChangeType string

const (
	ChangeIncrease     ChangeType = "Increase"
	ChangeDecrease     ChangeType = "Decrease"
	ChangeAdjustment   ChangeType = "Adjustment"
	ChangePaydayUpdate ChangeType = "PaydayUpdate"
)

// SalaryHistoryEntry is an append-only audit record of a salary or payday change.
type SalaryHistoryEntry struct {
	ID            string
	Date          time.Time
	PreviousValue decimal.Decimal
	NewValue      decimal.Decimal
	Month         int
	Year          int
	Type          ChangeType
	Reason        string
	PercentChange float64
}

// SalaryDeduction is a confirmed salary advance, subtracted from the net
// salary of the month it was received in.
type SalaryDeduction struct {
	ID              string
	Amount          decimal.Decimal
	Date            string
	SourceAdvanceID string
}

// ExtraIncome is income on top of salary.
type ExtraIncome struct {
	ID          string
	Amount      decimal.Decimal
	Description string
	Date        string
}

// AdvanceStatus is the lifecycle state of a salary advance.
type AdvanceStatus string

const (
	AdvancePending  AdvanceStatus = "pending"
	AdvanceReceived AdvanceStatus = "received"
)

// SalaryAdvance is a requested early withdrawal against salary. Confirming it
// produces a SalaryDeduction.
type SalaryAdvance struct {
	ID           string
	Amount       decimal.Decimal
	ExpectedDate string
	RequestedAt  time.Time
	Status       AdvanceStatus
	ReceivedAt   string
}
