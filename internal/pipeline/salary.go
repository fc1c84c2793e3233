package pipeline

import (
	"strings"
	"time"

	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/shopspring/decimal"
)

// ResolveGross returns the salary for a month: the monthly override when
// one exists, else the base salary.
func ResolveGross(month, year int, cfg model.SalaryConfig) decimal.Decimal {
	if v, ok := cfg.MonthlyOverrides[model.MonthKey(year, month)]; ok {
		return NonNegative(v)
	}
	return NonNegative(cfg.BaseSalary)
}

// ResolveGrossAt is ResolveGross with the forward-looking policy applied:
// months after today's month always use the base salary.
func ResolveGrossAt(month, year int, cfg model.SalaryConfig, today time.Time) decimal.Decimal {
	if isFutureMonth(month, year, today) {
		return NonNegative(cfg.BaseSalary)
	}
	return ResolveGross(month, year, cfg)
}

// ResolveNet returns the gross salary minus the deductions received in
// that calendar month.
func ResolveNet(month, year int, cfg model.SalaryConfig, deductions []model.SalaryDeduction) decimal.Decimal {
	return ResolveGross(month, year, cfg).Sub(DeductionsIn(month, year, deductions))
}

// DeductionsIn sums the deductions dated within the given month.
func DeductionsIn(month, year int, deductions []model.SalaryDeduction) decimal.Decimal {
	start, end := MonthRange(year, time.Month(month))
	total := decimal.Zero
	for _, d := range deductions {
		if inRange(d.Date, start, end) {
			total = total.Add(NonNegative(d.Amount))
		}
	}
	return total
}

// NonNegative clamps d to zero from below.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ClassifyChange labels a salary change by direction.
func ClassifyChange(prev, next decimal.Decimal) model.ChangeType {
	switch {
	case next.GreaterThan(prev):
		return model.ChangeIncrease
	case next.LessThan(prev):
		return model.ChangeDecrease
	}
	return model.ChangeAdjustment
}

// PercentChange returns (next-prev)/prev*100, or 0 when prev is zero.
func PercentChange(prev, next decimal.Decimal) float64 {
	return Percent(next.Sub(prev), prev)
}

// NewHistoryEntry records a salary change for month/year made at time at.
func NewHistoryEntry(prev, next decimal.Decimal, month, year int, reason string, at time.Time) model.SalaryHistoryEntry {
	if strings.TrimSpace(reason) == "" {
		reason = "Salary update"
	}
	return model.SalaryHistoryEntry{
		Date:          at,
		PreviousValue: prev,
		NewValue:      next,
		Month:         month,
		Year:          year,
		Type:          ClassifyChange(prev, next),
		Reason:        reason,
		PercentChange: PercentChange(prev, next),
	}
}

// NewPaydayEntry records a payday change.
func NewPaydayEntry(prev, next int, reason string, at time.Time) model.SalaryHistoryEntry {
	if strings.TrimSpace(reason) == "" {
		reason = "Payday update"
	}
	p, n := decimal.NewFromInt(int64(prev)), decimal.NewFromInt(int64(next))
	return model.SalaryHistoryEntry{
		Date:          at,
		PreviousValue: p,
		NewValue:      n,
		Month:         int(at.Month()),
		Year:          at.Year(),
		Type:          model.ChangePaydayUpdate,
		Reason:        reason,
		PercentChange: PercentChange(p, n),
	}
}

// ForwardOverrides returns the override keys written when a raise is applied
// from month/year onward: the rest of that year and all of the next.
func ForwardOverrides(month, year int, value decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, 24)
	for m := month; m <= 12; m++ {
		out[model.MonthKey(year, m)] = value
	}
	for m := 1; m <= 12; m++ {
		out[model.MonthKey(year+1, m)] = value
	}
	return out
}

// YearlySalary sums the resolved gross salary over the twelve months of year.
func YearlySalary(year int, cfg model.SalaryConfig) decimal.Decimal {
	total := decimal.Zero
	for m := 1; m <= 12; m++ {
		total = total.Add(ResolveGross(m, year, cfg))
	}
	return total
}

func isFutureMonth(month, year int, today time.Time) bool {
	if year != today.Year() {
		return year > today.Year()
	}
	return month > int(today.Month())
}

func inRange(date string, start, end time.Time) bool {
	d, ok := ParseDate(date)
	return ok && !d.Before(start) && !d.After(end)
}
