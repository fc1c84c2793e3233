package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/paycycle/internal/model"
	"github.com/theirongolddev/paycycle/internal/store"
)

func TestLoadSnapshot(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "paycycle.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer func() { _ = st.Close() }()
	ctx := context.Background()

	if _, err := st.AddExpense(ctx, expense("2024-06-06", "40", model.CategoryFood)); err != nil {
		t.Fatal(err)
	}
	if err := st.SetBaseSalary(ctx, dec("1000")); err != nil {
		t.Fatal(err)
	}
	pending, err := st.RequestAdvance(ctx, model.SalaryAdvance{Amount: dec("100"), ExpectedDate: "2024-06-20"})
	if err != nil {
		t.Fatal(err)
	}
	received, err := st.RequestAdvance(ctx, model.SalaryAdvance{Amount: dec("250"), ExpectedDate: "2024-06-07"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.ConfirmAdvance(ctx, received.ID, "2024-06-08"); err != nil {
		t.Fatal(err)
	}
	if _, err := st.AddGoal(ctx, model.FinancialGoal{Title: "Fund", TargetAmount: dec("500")}); err != nil {
		t.Fatal(err)
	}

	snap, err := LoadSnapshot(ctx, st)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(snap.Expenses) != 1 || len(snap.Deductions) != 1 || len(snap.Advances) != 2 || len(snap.Goals) != 1 {
		t.Errorf("snapshot sizes: expenses=%d deductions=%d advances=%d goals=%d",
			len(snap.Expenses), len(snap.Deductions), len(snap.Advances), len(snap.Goals))
	}

	p := snap.PendingAdvances()
	if len(p) != 1 || p[0].ID != pending.ID {
		t.Errorf("PendingAdvances = %+v, want only %s", p, pending.ID)
	}

	r := BuildCycleReport(snap, day(t, "2024-06-10"))
	assertDec(t, "NetSalary", r.NetSalary, "750")
}
