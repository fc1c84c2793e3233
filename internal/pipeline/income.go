package pipeline

import (
	"time"

	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/shopspring/decimal"
)

// IncomeIn sums extra income dated within the given month.
func IncomeIn(month, year int, incomes []model.ExtraIncome) decimal.Decimal {
	start, end := MonthRange(year, time.Month(month))
	return sumIncome(incomes, start, end)
}

// IncomeInYear sums extra income dated within the given year.
func IncomeInYear(year int, incomes []model.ExtraIncome) decimal.Decimal {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return sumIncome(incomes, start, end)
}

// TotalIncome is the gross salary of a month plus its extra income.
func TotalIncome(month, year int, cfg model.SalaryConfig, incomes []model.ExtraIncome) decimal.Decimal {
	return ResolveGross(month, year, cfg).Add(IncomeIn(month, year, incomes))
}

func sumIncome(incomes []model.ExtraIncome, start, end time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, in := range incomes {
		if inRange(in.Date, start, end) {
			total = total.Add(NonNegative(in.Amount))
		}
	}
	return total
}
