package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/shopspring/decimal"
)

// syntheticExpenses spreads n expenses over the two years before 2025-01-01.
func syntheticExpenses(n int) []model.Expense {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.Expense, n)
	for i := range out {
		out[i] = model.Expense{
			ID:          fmt.Sprintf("e%d", i),
			Description: "bench",
			Amount:      decimal.New(int64(100+i%5000), -2),
			Date:        start.AddDate(0, 0, i%730).Format(model.DateLayout),
			Category:    model.Categories[i%len(model.Categories)],
		}
	}
	return out
}

func BenchmarkAggregate(b *testing.B) {
	expenses := syntheticExpenses(50_000)
	start := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Aggregate(expenses, start, end)
	}
}

func BenchmarkBuildCycleReport(b *testing.B) {
	snap := Snapshot{
		Expenses: syntheticExpenses(50_000),
		Config:   model.SalaryConfig{BaseSalary: decimal.NewFromInt(5000), Payday: 5},
	}
	today := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = BuildCycleReport(snap, today)
	}
}

func BenchmarkBuildAnnualReport(b *testing.B) {
	expenses := syntheticExpenses(50_000)
	cfg := model.SalaryConfig{BaseSalary: decimal.NewFromInt(5000), Payday: 5}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = BuildAnnualReport(2024, expenses, cfg)
	}
}

func BenchmarkAnalyzeTrends(b *testing.B) {
	expenses := syntheticExpenses(50_000)
	today := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = AnalyzeTrends(expenses, decimal.NewFromInt(5000), nil, today)
	}
}
