// Package pipeline holds the pure salary-cycle computations: cycle
// resolution, spend aggregation, projection, salary resolution and the
// annual and trend reports. Nothing here reads the clock or does I/O.
package pipeline

import (
	"sort"
	"time"

	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/shopspring/decimal"
)

// Aggregate sums expenses dated within [start, end], inclusive on both ends.
// Expenses with unparseable dates are skipped.
func Aggregate(expenses []model.Expense, start, end time.Time) model.SpendSummary {
	start, end = DateOf(start), DateOf(end)

	summary := model.SpendSummary{
		Total:      decimal.Zero,
		ByCategory: make(map[string]decimal.Decimal),
	}
	for _, e := range expenses {
		d, ok := ParseDate(e.Date)
		if !ok || d.Before(start) || d.After(end) {
			continue
		}
		amount := NonNegative(e.Amount)
		cat := e.CategoryOrOther()
		prev, seen := summary.ByCategory[cat]
		if !seen {
			summary.Categories = append(summary.Categories, cat)
		}
		summary.ByCategory[cat] = prev.Add(amount)
		summary.Total = summary.Total.Add(amount)
		summary.Count++
	}
	return summary
}

// FilterByRange returns the expenses dated within [start, end].
func FilterByRange(expenses []model.Expense, start, end time.Time) []model.Expense {
	start, end = DateOf(start), DateOf(end)
	var out []model.Expense
	for _, e := range expenses {
		d, ok := ParseDate(e.Date)
		if !ok || d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// AggregateDays computes per-day spend over [start, end], oldest first.
// Days without expenses are included as zeros so charts show the gaps.
func AggregateDays(expenses []model.Expense, start, end time.Time) []model.DailySpend {
	start, end = DateOf(start), DateOf(end)
	if end.Before(start) {
		return nil
	}

	days := make([]model.DailySpend, daysBetween(start, end)+1)
	for i := range days {
		days[i] = model.DailySpend{Date: start.AddDate(0, 0, i), Amount: decimal.Zero}
	}
	for _, e := range expenses {
		d, ok := ParseDate(e.Date)
		if !ok || d.Before(start) || d.After(end) {
			continue
		}
		ds := &days[daysBetween(start, d)]
		ds.Amount = ds.Amount.Add(NonNegative(e.Amount))
		ds.Count++
	}
	return days
}

// RankCategories orders the summary's categories by amount, largest first.
// Ties keep first-encountered order.
func RankCategories(s model.SpendSummary) []model.CategoryTotal {
	return rankTotals(s.ByCategory, s.Categories, s.Total)
}

func rankTotals(byCategory map[string]decimal.Decimal, order []string, total decimal.Decimal) []model.CategoryTotal {
	ranked := make([]model.CategoryTotal, 0, len(order))
	for _, cat := range order {
		amount := byCategory[cat]
		ranked = append(ranked, model.CategoryTotal{
			Category:     cat,
			Amount:       amount,
			SharePercent: Percent(amount, total),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount.GreaterThan(ranked[j].Amount)
	})
	return ranked
}

// Percent returns part/whole*100, or 0 when whole is zero.
func Percent(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).InexactFloat64()
}
