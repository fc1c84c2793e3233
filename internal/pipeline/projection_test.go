package pipeline

import (
	"testing"

	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/shopspring/decimal"
)

func TestDailyAverage(t *testing.T) {
	assertDec(t, "DailyAverage(300, 30)", DailyAverage(dec("300"), 30), "10")
	assertDec(t, "DailyAverage(300, 0)", DailyAverage(dec("300"), 0), "0")
	assertDec(t, "DailyAverage(300, -1)", DailyAverage(dec("300"), -1), "0")
}

func TestProject_CapSelection(t *testing.T) {
	tests := []struct {
		name       string
		spent      string
		avg        string
		remaining  int
		salary     string
		additional string
		overspend  bool
	}{
		// naive 10*20=200, hist 600, salary (1000-300)*0.8=560, vol 600
		{"naive wins", "300", "10", 20, "1000", "200", false},
		// naive 100*25=2500, hist 200, salary 7920, vol 7500
		{"historical cap", "100", "100", 25, "10000", "200", false},
		// naive 50*20=1000, hist 1800, salary (1000-900)*0.8=80, vol 3000
		{"salary cap", "900", "50", 20, "1000", "80", false},
		// spent above salary: salary cap 0
		{"overspent already", "1200", "40", 10, "1000", "0", true},
		{"no days left", "500", "20", 0, "1000", "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Project(dec(tt.spent), dec(tt.avg), tt.remaining, dec(tt.salary))
			assertDec(t, "ProjectedAdditional", p.ProjectedAdditional, tt.additional)
			assertDec(t, "ProjectedTotal", p.ProjectedTotal, dec(tt.spent).Add(dec(tt.additional)).String())
			if p.WillOverspend != tt.overspend {
				t.Errorf("WillOverspend = %v, want %v", p.WillOverspend, tt.overspend)
			}
			if !p.FinalBalance.Equal(dec(tt.salary).Sub(p.ProjectedTotal)) {
				t.Errorf("FinalBalance = %s, want salary - total", p.FinalBalance)
			}
		})
	}
}

func TestProject_NeverExceedsAnyCap(t *testing.T) {
	for spent := int64(0); spent <= 2000; spent += 137 {
		for elapsed := 1; elapsed <= 31; elapsed += 5 {
			for _, salary := range []int64{0, 500, 1500, 5000} {
				s := decimal.NewFromInt(spent)
				avg := DailyAverage(s, elapsed)
				remaining := 31 - elapsed
				p := Project(s, avg, remaining, decimal.NewFromInt(salary))

				for name, limit := range map[string]decimal.Decimal{
					"naive":      p.Naive,
					"historical": p.HistoricalCap,
					"salary":     p.SalaryCap,
					"volatility": p.VolatilityCap,
				} {
					if p.ProjectedAdditional.GreaterThan(limit) {
						t.Fatalf("spent=%d elapsed=%d salary=%d: additional %s > %s cap %s",
							spent, elapsed, salary, p.ProjectedAdditional, name, limit)
					}
				}
				if p.ProjectedAdditional.IsNegative() {
					t.Fatalf("negative additional %s", p.ProjectedAdditional)
				}
			}
		}
	}
}

func TestProject_ZeroSalary(t *testing.T) {
	p := Project(decimal.Zero, decimal.Zero, 10, decimal.Zero)
	if p.WillOverspend {
		t.Error("WillOverspend = true with nothing spent and zero salary")
	}
	assertDec(t, "FinalBalance", p.FinalBalance, "0")

	p = Project(dec("10"), dec("1"), 10, decimal.Zero)
	if !p.WillOverspend {
		t.Error("WillOverspend = false with spend and zero salary")
	}
	assertDec(t, "ProjectedAdditional", p.ProjectedAdditional, "0")
}

func TestBuildCycleReport(t *testing.T) {
	snap := Snapshot{
		Expenses: []model.Expense{
			expense("2024-06-04", "999", model.CategoryFood), // previous cycle
			expense("2024-06-05", "60", model.CategoryFood),
			expense("2024-06-08", "30", model.CategoryTransport),
			expense("2024-06-11", "500", model.CategoryFood), // after today
		},
		Config: model.SalaryConfig{
			BaseSalary:       dec("1000"),
			MonthlyOverrides: map[string]decimal.Decimal{"2024-6": dec("1500")},
			Payday:           5,
		},
		Deductions: []model.SalaryDeduction{
			{Amount: dec("300"), Date: "2024-06-02"},
			{Amount: dec("50"), Date: "2024-07-01"},
		},
	}

	r := BuildCycleReport(snap, day(t, "2024-06-10"))
	assertDec(t, "Spend.Total", r.Spend.Total, "90")
	assertDec(t, "Salary", r.Salary, "1500")
	assertDec(t, "Deductions", r.Deductions, "300")
	assertDec(t, "NetSalary", r.NetSalary, "1200")
	assertDec(t, "DailyAverage", r.Projection.DailyAverage, "15")
	// naive 15*24=360, hist 180, salary (1200-90)*0.8=888, vol 1080
	assertDec(t, "ProjectedAdditional", r.Projection.ProjectedAdditional, "180")
	if r.PercentSpent != 7.5 {
		t.Errorf("PercentSpent = %v, want 7.5", r.PercentSpent)
	}
	if !r.WindowEnd.Equal(day(t, "2024-06-10")) {
		t.Errorf("WindowEnd = %s, want today", r.WindowEnd.Format("2006-01-02"))
	}
}

func TestBuildCycleReport_ZeroSalary(t *testing.T) {
	snap := Snapshot{
		Expenses: []model.Expense{expense("2024-06-05", "10", model.CategoryFood)},
		Config:   model.SalaryConfig{Payday: 5},
	}
	r := BuildCycleReport(snap, day(t, "2024-06-06"))
	if r.PercentSpent != 0 {
		t.Errorf("PercentSpent = %v, want 0", r.PercentSpent)
	}
	if !r.Projection.WillOverspend {
		t.Error("WillOverspend = false, want true when spending against no salary")
	}
}
