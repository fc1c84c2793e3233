package pipeline

import (
	"testing"

	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/shopspring/decimal"
)

func TestTotalIncome(t *testing.T) {
	cfg := model.SalaryConfig{
		BaseSalary:       dec("2000"),
		MonthlyOverrides: map[string]decimal.Decimal{"2024-3": dec("2500")},
	}
	incomes := []model.ExtraIncome{
		{Amount: dec("100"), Date: "2024-03-01"},
		{Amount: dec("50"), Date: "2024-03-31"},
		{Amount: dec("-20"), Date: "2024-03-15"},
		{Amount: dec("999"), Date: "2024-04-01"},
	}

	assertDec(t, "IncomeIn March", IncomeIn(3, 2024, incomes), "150")
	assertDec(t, "TotalIncome March", TotalIncome(3, 2024, cfg, incomes), "2650")
	assertDec(t, "TotalIncome May", TotalIncome(5, 2024, cfg, nil), "2000")
	assertDec(t, "IncomeInYear", IncomeInYear(2024, incomes), "1149")
}
