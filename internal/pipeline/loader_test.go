package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/theirongolddev/paycycle/internal/model"
	"github.com/theirongolddev/paycycle/internal/store"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadExports_MergesInPathOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"expenses": [{"id": "1", "description": "Rent", "amount": 900, "date": "2024-06-01", "category": "Moradia"}],
		"salary": 3000, "payday": 10, "monthlySalaries": {"2024-6": 3100}}`)
	writeFile(t, dir, "b.json", `{"expenses": [{"id": "2", "description": "Bus", "amount": 4, "date": "2024-06-02"},
		{"description": "", "amount": 1, "date": "2024-06-02"}],
		"defaultSalary": 3200, "monthlySalaries": {"2024-7": 3300}}`)
	writeFile(t, dir, "c.json", `{broken`)

	var calls atomic.Int32
	res, err := LoadExports(context.Background(), []string{dir}, func(current, total int) {
		calls.Add(1)
		if total != 3 {
			t.Errorf("progress total = %d, want 3", total)
		}
	})
	if err != nil {
		t.Fatalf("LoadExports: %v", err)
	}

	if res.TotalFiles != 3 || res.ParsedFiles != 2 || res.FileErrors != 1 {
		t.Errorf("files total=%d parsed=%d errors=%d, want 3/2/1", res.TotalFiles, res.ParsedFiles, res.FileErrors)
	}
	if calls.Load() != 3 {
		t.Errorf("progress calls = %d, want 3", calls.Load())
	}
	if res.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", res.Skipped)
	}

	e := res.Export
	if len(e.Expenses) != 2 || e.Expenses[0].Category != model.CategoryHousing {
		t.Errorf("Expenses = %+v", e.Expenses)
	}
	if e.BaseSalary == nil || !e.BaseSalary.Equal(dec("3200")) {
		t.Errorf("BaseSalary = %v, want later file's 3200", e.BaseSalary)
	}
	if e.Payday != 10 {
		t.Errorf("Payday = %d, want 10 kept from first file", e.Payday)
	}
	if len(e.Overrides) != 2 {
		t.Errorf("Overrides = %v, want both months", e.Overrides)
	}
}

func TestLoadExports_MissingPath(t *testing.T) {
	_, err := LoadExports(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}, nil)
	if err == nil {
		t.Fatal("LoadExports(missing) = nil error")
	}
}

func TestLoadExports_IntoStore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "backup.json", `{"expenses": [
		{"id": "1", "description": "Groceries", "amount": "120.5", "date": "2024-06-07", "category": "Alimentação"}],
		"salary": 2000, "payday": 5}`)

	res, err := LoadExports(context.Background(), []string{dir}, nil)
	if err != nil {
		t.Fatalf("LoadExports: %v", err)
	}

	st, err := store.Open(filepath.Join(t.TempDir(), "paycycle.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer func() { _ = st.Close() }()

	ctx := context.Background()
	if _, err := st.Import(ctx, ImportBatch(res.Export)); err != nil {
		t.Fatalf("Import: %v", err)
	}

	snap, err := LoadSnapshot(ctx, st)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(snap.Expenses) != 1 {
		t.Fatalf("snapshot expenses = %d, want 1", len(snap.Expenses))
	}
	if !snap.Config.BaseSalary.Equal(dec("2000")) || snap.Config.Payday != 5 {
		t.Errorf("Config = %+v", snap.Config)
	}

	r := BuildCycleReport(snap, day(t, "2024-06-10"))
	assertDec(t, "cycle spend", r.Spend.Total, "120.5")
	assertDec(t, "food", r.Spend.ByCategory[model.CategoryFood], "120.5")
}
