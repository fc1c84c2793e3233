package pipeline

import (
	"sort"
	"time"

	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/shopspring/decimal"
)

// BuildAnnualReport folds twelve months of spend and resolved salary into a
// yearly report. Category totals are summed once over the whole year.
func BuildAnnualReport(year int, expenses []model.Expense, cfg model.SalaryConfig) model.AnnualReport {
	return buildAnnual(year, expenses, func(month int) decimal.Decimal {
		return ResolveGross(month, year, cfg)
	})
}

// BuildAnnualReportAt is the dashboard variant of BuildAnnualReport. Months
// after today use the base salary and deductions are subtracted per month.
// Extra income counts toward total income but not toward the balance.
func BuildAnnualReportAt(year int, snap Snapshot, today time.Time) model.AnnualReport {
	r := buildAnnual(year, snap.Expenses, func(month int) decimal.Decimal {
		gross := ResolveGrossAt(month, year, snap.Config, today)
		return gross.Sub(DeductionsIn(month, year, snap.Deductions))
	})
	for i := range r.Months {
		extra := IncomeIn(i+1, year, snap.Incomes)
		r.Months[i].ExtraIncome = extra
		r.Months[i].TotalIncome = r.Months[i].Salary.Add(extra)
	}
	r.ExtraIncome = IncomeInYear(year, snap.Incomes)
	r.AnnualTotalIncome = r.AnnualSalary.Add(r.ExtraIncome)
	return r
}

func buildAnnual(year int, expenses []model.Expense, salaryFor func(month int) decimal.Decimal) model.AnnualReport {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	inYear := FilterByRange(expenses, yearStart, yearEnd)

	r := model.AnnualReport{
		Year:          year,
		AnnualExpense: decimal.Zero,
		AnnualSalary:  decimal.Zero,
		ExtraIncome:   decimal.Zero,
	}
	for m := 1; m <= 12; m++ {
		start, end := MonthRange(year, time.Month(m))
		spend := Aggregate(inYear, start, end)
		salary := salaryFor(m)

		r.Months[m-1] = model.MonthSummary{
			Month:              m,
			TotalExpense:       spend.Total,
			Salary:             salary,
			Balance:            salary.Sub(spend.Total),
			PercentOfSalary:    Percent(spend.Total, salary),
			ExpensesByCategory: spend.ByCategory,
			ExtraIncome:        decimal.Zero,
			TotalIncome:        salary,
		}
		r.AnnualExpense = r.AnnualExpense.Add(spend.Total)
		r.AnnualSalary = r.AnnualSalary.Add(salary)
	}
	r.AnnualBalance = r.AnnualSalary.Sub(r.AnnualExpense)
	r.AnnualTotalIncome = r.AnnualSalary
	r.AnnualPercentOfSalary = Percent(r.AnnualExpense, r.AnnualSalary)

	annual := Aggregate(inYear, yearStart, yearEnd)
	r.AnnualExpensesByCategory = annual.ByCategory
	r.CategoryRanking = RankCategories(annual)
	return r
}

// AvailableYears lists the years that have expenses or salary overrides,
// plus today's year, newest first.
func AvailableYears(expenses []model.Expense, cfg model.SalaryConfig, today time.Time) []int {
	seen := map[int]struct{}{today.Year(): {}}
	for _, e := range expenses {
		if d, ok := ParseDate(e.Date); ok {
			seen[d.Year()] = struct{}{}
		}
	}
	for key := range cfg.MonthlyOverrides {
		if y, _, ok := model.ParseMonthKey(key); ok {
			seen[y] = struct{}{}
		}
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
