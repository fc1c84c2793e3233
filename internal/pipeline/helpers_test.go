package pipeline

import (
	"testing"
	"time"

	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/shopspring/decimal"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func expense(date, amount, category string) model.Expense {
	return model.Expense{Description: "x", Date: date, Amount: dec(amount), Category: category}
}

func assertDec(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}
