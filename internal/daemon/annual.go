package daemon

import (
	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/shopspring/decimal"
)

// MonthView is one month row of the /v1/annual payload.
type MonthView struct {
	Month           int                        `json:"month"`
	Expense         decimal.Decimal            `json:"expense"`
	Salary          decimal.Decimal            `json:"salary"`
	Balance         decimal.Decimal            `json:"balance"`
	PercentOfSalary float64                    `json:"percent_of_salary"`
	ExtraIncome     decimal.Decimal            `json:"extra_income"`
	TotalIncome     decimal.Decimal            `json:"total_income"`
	ByCategory      map[string]decimal.Decimal `json:"by_category"`
}

// CategoryView is one ranked category of the /v1/annual payload.
type CategoryView struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Share    float64         `json:"share_percent"`
}

// AnnualView is the JSON form of an annual report.
type AnnualView struct {
	Year            int                        `json:"year"`
	Months          []MonthView                `json:"months"`
	Expense         decimal.Decimal            `json:"expense"`
	Salary          decimal.Decimal            `json:"salary"`
	Balance         decimal.Decimal            `json:"balance"`
	PercentOfSalary float64                    `json:"percent_of_salary"`
	ExtraIncome     decimal.Decimal            `json:"extra_income"`
	TotalIncome     decimal.Decimal            `json:"total_income"`
	ByCategory      map[string]decimal.Decimal `json:"by_category"`
	Ranking         []CategoryView             `json:"ranking"`
}

func annualView(r model.AnnualReport) AnnualView {
	v := AnnualView{
		Year:            r.Year,
		Months:          make([]MonthView, 0, len(r.Months)),
		Expense:         r.AnnualExpense,
		Salary:          r.AnnualSalary,
		Balance:         r.AnnualBalance,
		PercentOfSalary: r.AnnualPercentOfSalary,
		ExtraIncome:     r.ExtraIncome,
		TotalIncome:     r.AnnualTotalIncome,
		ByCategory:      r.AnnualExpensesByCategory,
		Ranking:         make([]CategoryView, 0, len(r.CategoryRanking)),
	}
	for _, m := range r.Months {
		v.Months = append(v.Months, MonthView{
			Month:           m.Month,
			Expense:         m.TotalExpense,
			Salary:          m.Salary,
			Balance:         m.Balance,
			PercentOfSalary: m.PercentOfSalary,
			ExtraIncome:     m.ExtraIncome,
			TotalIncome:     m.TotalIncome,
			ByCategory:      m.ExpensesByCategory,
		})
	}
	for _, c := range r.CategoryRanking {
		v.Ranking = append(v.Ranking, CategoryView{Category: c.Category, Amount: c.Amount, Share: c.SharePercent})
	}
	return v
}
