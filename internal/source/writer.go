package source

import (
	"encoding/json"
	"io"
	"time"

	"github.com/theirongolddev/paycycle/internal/model"
)

// Write encodes e as an indented backup document stamped with at.
func Write(w io.Writer, e Export, at time.Time) error {
	raw := RawExport{
		Expenses:   make([]RawExpense, 0, len(e.Expenses)),
		ExportDate: at.UTC().Format(time.RFC3339),
	}

	for _, ex := range e.Expenses {
		amount := NewNumber(ex.Amount)
		re := RawExpense{
			ID:          FlexString(ex.ID),
			Description: ex.Description,
			Amount:      &amount,
			Date:        ex.Date,
			Category:    ex.CategoryOrOther(),
		}
		if !ex.CreatedAt.IsZero() {
			re.CreatedAt = ex.CreatedAt.UTC().Format(time.RFC3339Nano)
		}
		raw.Expenses = append(raw.Expenses, re)
	}

	if e.BaseSalary != nil {
		base := NewNumber(*e.BaseSalary)
		raw.DefaultSalary = &base
	}
	if e.Payday > 0 {
		p := NewNumber(decimalInt(e.Payday))
		raw.Payday = &p
	}

	if len(e.Overrides) > 0 {
		raw.MonthlySalaries = make(map[string]Number, len(e.Overrides))
		for k, v := range e.Overrides {
			raw.MonthlySalaries[k] = NewNumber(v)
		}
	}

	for _, h := range e.History {
		raw.SalaryHistory = append(raw.SalaryHistory, RawHistoryEntry{
			ID:            FlexString(h.ID),
			Date:          h.Date.UTC().Format(time.RFC3339Nano),
			PreviousValue: NewNumber(h.PreviousValue),
			NewValue:      NewNumber(h.NewValue),
			Month:         NewNumber(decimalInt(h.Month)),
			Year:          NewNumber(decimalInt(h.Year)),
			Type:          string(h.Type),
			Reason:        h.Reason,
			PercentChange: NewNumber(decimalFloat(h.PercentChange)),
		})
	}

	for _, in := range e.Incomes {
		raw.ExtraIncome = append(raw.ExtraIncome, RawIncome{
			ID:          FlexString(in.ID),
			Amount:      NewNumber(in.Amount),
			Description: in.Description,
			Date:        in.Date,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(raw)
}

// ExportOf assembles an Export from stored records.
func ExportOf(expenses []model.Expense, cfg model.SalaryConfig, history []model.SalaryHistoryEntry, incomes []model.ExtraIncome) Export {
	base := cfg.BaseSalary
	return Export{
		Expenses:   expenses,
		BaseSalary: &base,
		Payday:     cfg.Payday,
		Overrides:  cfg.MonthlyOverrides,
		History:    history,
		Incomes:    incomes,
	}
}
