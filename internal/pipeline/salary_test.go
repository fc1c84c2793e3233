package pipeline

import (
	"testing"
	"time"

	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/shopspring/decimal"
)

func TestResolveGross_OverridePrecedence(t *testing.T) {
	cfg := model.SalaryConfig{
		BaseSalary:       dec("1000"),
		MonthlyOverrides: map[string]decimal.Decimal{"2024-6": dec("1500")},
	}
	assertDec(t, "June", ResolveGross(6, 2024, cfg), "1500")
	assertDec(t, "July", ResolveGross(7, 2024, cfg), "1000")
	assertDec(t, "June 2025", ResolveGross(6, 2025, cfg), "1000")
}

func TestResolveGrossAt_FutureMonthsUseBase(t *testing.T) {
	cfg := model.SalaryConfig{
		BaseSalary: dec("1000"),
		MonthlyOverrides: map[string]decimal.Decimal{
			"2024-5": dec("1200"),
			"2024-6": dec("1500"),
			"2024-9": dec("2000"),
		},
	}
	today := day(t, "2024-06-15")
	assertDec(t, "past", ResolveGrossAt(5, 2024, cfg, today), "1200")
	assertDec(t, "current", ResolveGrossAt(6, 2024, cfg, today), "1500")
	assertDec(t, "future", ResolveGrossAt(9, 2024, cfg, today), "1000")
	assertDec(t, "next year", ResolveGrossAt(1, 2025, cfg, today), "1000")
}

func TestResolveNet(t *testing.T) {
	cfg := model.SalaryConfig{BaseSalary: dec("2000")}
	deductions := []model.SalaryDeduction{
		{Amount: dec("300"), Date: "2024-06-01"},
		{Amount: dec("200"), Date: "2024-06-30"},
		{Amount: dec("999"), Date: "2024-07-01"},
		{Amount: dec("999"), Date: "not a date"},
		{Amount: dec("-50"), Date: "2024-06-10"},
	}
	assertDec(t, "ResolveNet(6)", ResolveNet(6, 2024, cfg, deductions), "1500")
	assertDec(t, "ResolveNet(5)", ResolveNet(5, 2024, cfg, deductions), "2000")
}

func TestResolveNet_ZeroSalary(t *testing.T) {
	got := ResolveNet(6, 2024, model.SalaryConfig{}, nil)
	if !got.IsZero() {
		t.Errorf("ResolveNet with empty config = %s, want 0", got)
	}
}

func TestNewHistoryEntry(t *testing.T) {
	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	h := NewHistoryEntry(dec("2000"), dec("2500"), 6, 2024, "", at)
	if h.Type != model.ChangeIncrease {
		t.Errorf("Type = %q, want Increase", h.Type)
	}
	if h.PercentChange != 25 {
		t.Errorf("PercentChange = %v, want 25", h.PercentChange)
	}
	if h.Reason != "Salary update" {
		t.Errorf("Reason = %q, want default", h.Reason)
	}

	if got := NewHistoryEntry(dec("2000"), dec("1000"), 6, 2024, "cut", at); got.Type != model.ChangeDecrease || got.PercentChange != -50 {
		t.Errorf("decrease entry = %+v", got)
	}
	if got := NewHistoryEntry(dec("2000"), dec("2000"), 6, 2024, "", at); got.Type != model.ChangeAdjustment {
		t.Errorf("Type = %q, want Adjustment", got.Type)
	}
	if got := NewHistoryEntry(decimal.Zero, dec("2000"), 6, 2024, "", at); got.PercentChange != 0 {
		t.Errorf("PercentChange from zero = %v, want 0", got.PercentChange)
	}
}

func TestNewPaydayEntry(t *testing.T) {
	at := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	h := NewPaydayEntry(5, 10, "", at)
	if h.Type != model.ChangePaydayUpdate || h.Month != 3 || h.Year != 2024 {
		t.Errorf("payday entry = %+v", h)
	}
	assertDec(t, "NewValue", h.NewValue, "10")
}

func TestForwardOverrides(t *testing.T) {
	got := ForwardOverrides(10, 2024, dec("3000"))
	if len(got) != 15 {
		t.Fatalf("len = %d, want 3 months of 2024 + 12 of 2025", len(got))
	}
	for _, key := range []string{"2024-10", "2024-12", "2025-1", "2025-12"} {
		if v, ok := got[key]; !ok || !v.Equal(dec("3000")) {
			t.Errorf("override %s = %v, %v; want 3000", key, v, ok)
		}
	}
	if _, ok := got["2024-9"]; ok {
		t.Error("override written before the selected month")
	}
}

func TestYearlySalary(t *testing.T) {
	cfg := model.SalaryConfig{
		BaseSalary:       dec("1000"),
		MonthlyOverrides: map[string]decimal.Decimal{"2024-12": dec("2000")},
	}
	assertDec(t, "YearlySalary", YearlySalary(2024, cfg), "13000")
}
