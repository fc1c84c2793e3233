package store

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ImportBatch is a set of records merged into the store in one transaction.
// Records with an existing ID replace the stored row.
type ImportBatch struct {
	Expenses   []model.Expense
	BaseSalary *decimal.Decimal
	Payday     int // 0 leaves the stored payday unchanged
	Overrides  map[string]decimal.Decimal
	History    []model.SalaryHistoryEntry
	Incomes    []model.ExtraIncome
}

// ImportStats counts what an import wrote.
type ImportStats struct {
	Expenses  int
	Skipped   int
	Overrides int
	History   int
	Incomes   int
}

// Import merges a batch. Expenses that fail validation are skipped and
// counted rather than aborting the import.
func (s *Store) Import(ctx context.Context, b ImportBatch) (ImportStats, error) {
	var st ImportStats

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return st, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	for _, e := range b.Expenses {
		e = normalizeExpense(e)
		if e.Validate() != nil {
			st.Skipped++
			continue
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		_, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO expenses
			(id, description, amount, date, category, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID, e.Description, e.Amount, e.Date, e.Category, formatTime(e.CreatedAt))
		if err != nil {
			return st, fmt.Errorf("importing expense %s: %w", e.ID, err)
		}
		st.Expenses++
	}

	if b.BaseSalary != nil || b.Payday > 0 {
		base := decimal.Zero
		if b.BaseSalary != nil {
			base = *b.BaseSalary
		}
		payday := b.Payday
		if payday < 1 || payday > 31 {
			payday = model.DefaultPayday
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO salary_settings (id, base_salary, payday, updated_at)
			VALUES (1, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				base_salary = CASE WHEN ? THEN excluded.base_salary ELSE base_salary END,
				payday = CASE WHEN ? THEN excluded.payday ELSE payday END,
				updated_at = excluded.updated_at`,
			base, payday, formatTime(now), b.BaseSalary != nil, b.Payday > 0)
		if err != nil {
			return st, fmt.Errorf("importing salary settings: %w", err)
		}
	}

	if err := upsertOverrides(ctx, tx, b.Overrides); err != nil {
		return st, err
	}
	st.Overrides = len(b.Overrides)

	for _, h := range b.History {
		if h.ID == "" {
			h.ID = uuid.NewString()
		}
		if err := insertHistory(ctx, tx, h); err != nil {
			return st, err
		}
		st.History++
	}

	for _, in := range b.Incomes {
		if in.ID == "" {
			in.ID = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO extra_income (id, amount, description, date)
			VALUES (?, ?, ?, ?)`, in.ID, in.Amount, in.Description, in.Date); err != nil {
			return st, fmt.Errorf("importing income: %w", err)
		}
		st.Incomes++
	}

	if err := tx.Commit(); err != nil {
		return st, err
	}
	return st, nil
}
