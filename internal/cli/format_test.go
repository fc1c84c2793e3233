package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"12.5", "$12.50"},
		{"999.999", "$1,000.00"},
		{"1234567.891", "$1,234,567.89"},
		{"-12.5", "-$12.50"},
		{"-1500", "-$1,500.00"},
	}
	for _, tt := range tests {
		got := FormatMoney(decimal.RequireFromString(tt.in))
		if got != tt.want {
			t.Errorf("FormatMoney(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMoneyCurrency(t *testing.T) {
	prev := Currency
	Currency = "R$"
	t.Cleanup(func() { Currency = prev })

	if got := FormatMoney(decimal.NewFromInt(4500)); got != "R$4,500.00" {
		t.Fatalf("FormatMoney = %q, want R$4,500.00", got)
	}
}

func TestFormatMoneyShort(t *testing.T) {
	if got := FormatMoneyShort(decimal.RequireFromString("99.5")); got != "$99.50" {
		t.Errorf("FormatMoneyShort(99.5) = %q", got)
	}
	if got := FormatMoneyShort(decimal.RequireFromString("1234.56")); got != "$1,235" {
		t.Errorf("FormatMoneyShort(1234.56) = %q", got)
	}
	if got := FormatMoneyShort(decimal.RequireFromString("-2000")); got != "-$2,000" {
		t.Errorf("FormatMoneyShort(-2000) = %q", got)
	}
}

func TestFormatDelta(t *testing.T) {
	if got := FormatDelta(decimal.NewFromInt(150), decimal.NewFromInt(100)); got != "+$50.00" {
		t.Errorf("FormatDelta up = %q", got)
	}
	if got := FormatDelta(decimal.NewFromInt(100), decimal.NewFromInt(150)); got != "-$50.00" {
		t.Errorf("FormatDelta down = %q", got)
	}
}

func TestFormatPercentAndDays(t *testing.T) {
	if got := FormatPercent(42.345); got != "42.3%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatSignedPercent(10); got != "+10.0%" {
		t.Errorf("FormatSignedPercent = %q", got)
	}
	if got := FormatDays(1); got != "1 day" {
		t.Errorf("FormatDays(1) = %q", got)
	}
	if got := FormatDays(12); got != "12 days" {
		t.Errorf("FormatDays(12) = %q", got)
	}
	if got := FormatMonth(2); got != "Feb" {
		t.Errorf("FormatMonth(2) = %q", got)
	}
	if got := FormatMonth(13); got != "???" {
		t.Errorf("FormatMonth(13) = %q", got)
	}
}

func TestFormatRange(t *testing.T) {
	a := time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)
	if got := FormatRange(a, b); got != "05 Dec 2024 - 04 Jan 2025" {
		t.Errorf("FormatRange across years = %q", got)
	}
	c := time.Date(2025, 2, 4, 0, 0, 0, 0, time.UTC)
	if got := FormatRange(b.AddDate(0, 0, 1), c); got != "05 Jan - 04 Feb 2025" {
		t.Errorf("FormatRange = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Supermarket", 6); got != "Super…" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("Rent", 10); got != "Rent" {
		t.Errorf("Truncate short = %q", got)
	}
}

func TestRenderTableAlignsColumns(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Category", "Amount"},
		Rows: [][]string{
			{"Food", "$12.00"},
			{"---"},
			{"Housing", "$1,200.00"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("RenderTable produced %d lines, want 7", len(lines))
	}
	width := lipgloss.Width(lines[0])
	for i, l := range lines {
		if lipgloss.Width(l) != width {
			t.Fatalf("line %d width = %d, want %d: %q", i, lipgloss.Width(l), width, l)
		}
	}
}

func TestRenderSpendBar(t *testing.T) {
	bar := RenderSpendBar(50, 10)
	if got := strings.Count(bar, "█"); got != 5 {
		t.Errorf("filled cells = %d, want 5", got)
	}
	if got := strings.Count(RenderSpendBar(150, 10), "█"); got != 10 {
		t.Errorf("over-full bar filled = %d, want 10", got)
	}
	if got := strings.Count(RenderSpendBar(-5, 10), "░"); got != 10 {
		t.Errorf("negative bar empty = %d, want 10", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{0, 7}); got != "▁█" {
		t.Errorf("RenderSparkline = %q", got)
	}
	if RenderSparkline(nil) != "" {
		t.Error("empty sparkline should be empty")
	}
}
