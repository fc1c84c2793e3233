package pipeline

import (
	"context"
	"fmt"

	"github.com/theirongolddev/paycycle/internal/model"
	"github.com/theirongolddev/paycycle/internal/store"
)

// Snapshot is every record the calculators read, loaded at one point in time.
type Snapshot struct {
	Expenses   []model.Expense
	Config     model.SalaryConfig
	Deductions []model.SalaryDeduction
	Incomes    []model.ExtraIncome
	Advances   []model.SalaryAdvance
	History    []model.SalaryHistoryEntry
	Goals      []model.FinancialGoal
}

// LoadSnapshot reads all tables from st in one read transaction, so an
// advance and the deduction its confirmation created are seen together.
func LoadSnapshot(ctx context.Context, st *store.Store) (Snapshot, error) {
	var snap Snapshot
	err := st.Read(ctx, func(v store.View) (err error) {
		if snap.Expenses, err = v.ListExpenses(ctx); err != nil {
			return err
		}
		if snap.Config, err = v.SalaryConfig(ctx); err != nil {
			return err
		}
		if snap.Deductions, err = v.ListDeductions(ctx); err != nil {
			return err
		}
		if snap.Incomes, err = v.ListIncome(ctx); err != nil {
			return err
		}
		if snap.Advances, err = v.ListAdvances(ctx); err != nil {
			return err
		}
		if snap.History, err = v.History(ctx); err != nil {
			return err
		}
		snap.Goals, err = v.ListGoals(ctx)
		return err
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading snapshot: %w", err)
	}
	return snap, nil
}

// PendingAdvances returns the advances not yet received.
func (s Snapshot) PendingAdvances() []model.SalaryAdvance {
	var out []model.SalaryAdvance
	for _, a := range s.Advances {
		if a.Status == model.AdvancePending {
			out = append(out, a)
		}
	}
	return out
}
