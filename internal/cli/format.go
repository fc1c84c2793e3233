// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Currency is the symbol FormatMoney prefixes amounts with.
var Currency = "$"

// FormatMoney formats an amount with thousands separators and two decimals.
// e.g., 1234567.891 -> "$1,234,567.89", -12.5 -> "-$12.50"
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.Round(2)
	whole := fixed.IntPart()
	cents := fixed.Sub(decimal.NewFromInt(whole)).Mul(decimal.NewFromInt(100)).IntPart()
	return fmt.Sprintf("%s%s%s.%02d", sign, Currency, humanize.Comma(whole), cents)
}

// FormatMoneyShort drops the cents for large amounts.
// e.g., 1234.56 -> "$1,235", 99.5 -> "$99.50"
func FormatMoneyShort(d decimal.Decimal) string {
	if d.Abs().LessThan(decimal.NewFromInt(1000)) {
		return FormatMoney(d)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + Currency + humanize.Comma(d.Abs().Round(0).IntPart())
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-100 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f)
}

// FormatSignedPercent formats a percent change with an explicit sign.
func FormatSignedPercent(f float64) string {
	if f > 0 {
		return fmt.Sprintf("+%.1f%%", f)
	}
	return fmt.Sprintf("%.1f%%", f)
}

// FormatDelta formats the difference between two amounts with a sign.
func FormatDelta(current, previous decimal.Decimal) string {
	delta := current.Sub(previous)
	if delta.IsNegative() {
		return FormatMoney(delta)
	}
	return "+" + FormatMoney(delta)
}

// FormatDate formats a civil date as "Mon 02 Jan".
func FormatDate(t time.Time) string {
	return t.Format("Mon 02 Jan")
}

// FormatRange formats an inclusive date range.
func FormatRange(start, end time.Time) string {
	if start.Year() != end.Year() {
		return start.Format("02 Jan 2006") + " - " + end.Format("02 Jan 2006")
	}
	return start.Format("02 Jan") + " - " + end.Format("02 Jan 2006")
}

// FormatDays pluralizes a day count.
func FormatDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// FormatMonth returns a 3-letter month abbreviation from a month number (1-12).
func FormatMonth(month int) string {
	if month < 1 || month > 12 {
		return "???"
	}
	return time.Month(month).String()[:3]
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// Truncate shortens s to n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
