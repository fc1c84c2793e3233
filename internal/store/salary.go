package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalaryConfig loads the salary configuration. Before anything has been
// saved it returns a zero base salary and model.DefaultPayday.
func (v View) SalaryConfig(ctx context.Context) (model.SalaryConfig, error) {
	cfg := model.SalaryConfig{
		BaseSalary:       decimal.Zero,
		MonthlyOverrides: make(map[string]decimal.Decimal),
		Payday:           model.DefaultPayday,
	}

	err := v.q.QueryRowContext(ctx, "SELECT base_salary, payday FROM salary_settings WHERE id = 1").
		Scan(&cfg.BaseSalary, &cfg.Payday)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return cfg, fmt.Errorf("reading salary settings: %w", err)
	}

	rows, err := v.q.QueryContext(ctx, "SELECT month_key, amount FROM salary_overrides")
	if err != nil {
		return cfg, fmt.Errorf("reading salary overrides: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key string
		var amount decimal.Decimal
		if err := rows.Scan(&key, &amount); err != nil {
			return cfg, err
		}
		cfg.MonthlyOverrides[key] = amount
	}
	return cfg, rows.Err()
}

// HasSalaryConfig reports whether salary settings have ever been saved.
func (s *Store) HasSalaryConfig(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM salary_settings").Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetBaseSalary stores the default salary used for months without an override.
func (s *Store) SetBaseSalary(ctx context.Context, amount decimal.Decimal) error {
	return upsertBaseSalary(ctx, s.db, amount)
}

// SetPayday stores the payday day-of-month.
func (s *Store) SetPayday(ctx context.Context, payday int) error {
	return upsertPayday(ctx, s.db, payday)
}

// SetOverrides upserts monthly overrides keyed by model.MonthKey.
func (s *Store) SetOverrides(ctx context.Context, overrides map[string]decimal.Decimal) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := upsertOverrides(ctx, tx, overrides); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteOverride removes the override for a month, reverting it to the base salary.
func (s *Store) DeleteOverride(ctx context.Context, year, month int) error {
	err := affectedOne(s.db.ExecContext(ctx, "DELETE FROM salary_overrides WHERE month_key = ?",
		model.MonthKey(year, month)))
	if err != nil {
		return fmt.Errorf("deleting override %s: %w", model.MonthKey(year, month), err)
	}
	return nil
}

// AddHistory appends a salary history entry.
func (s *Store) AddHistory(ctx context.Context, h model.SalaryHistoryEntry) (model.SalaryHistoryEntry, error) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if err := insertHistory(ctx, s.db, h); err != nil {
		return model.SalaryHistoryEntry{}, err
	}
	return h, nil
}

// SalaryChange is a set of salary writes committed together. Nil fields
// are left untouched.
type SalaryChange struct {
	Payday    *int
	Base      *decimal.Decimal
	Overrides map[string]decimal.Decimal
	History   []model.SalaryHistoryEntry
}

// ApplySalaryChange writes c and its history entries in one transaction.
func (s *Store) ApplySalaryChange(ctx context.Context, c SalaryChange) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if c.Payday != nil {
		if err := upsertPayday(ctx, tx, *c.Payday); err != nil {
			return err
		}
	}
	if c.Base != nil {
		if err := upsertBaseSalary(ctx, tx, *c.Base); err != nil {
			return err
		}
	}
	if err := upsertOverrides(ctx, tx, c.Overrides); err != nil {
		return err
	}
	for _, h := range c.History {
		if h.ID == "" {
			h.ID = uuid.NewString()
		}
		if err := insertHistory(ctx, tx, h); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// History returns the salary history, most recent first.
func (v View) History(ctx context.Context) ([]model.SalaryHistoryEntry, error) {
	rows, err := v.q.QueryContext(ctx, `SELECT id, changed_at, previous_value, new_value, month, year,
		change_type, reason, percent_change
		FROM salary_history ORDER BY changed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing salary history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.SalaryHistoryEntry
	for rows.Next() {
		var h model.SalaryHistoryEntry
		var changed, typ string
		if err := rows.Scan(&h.ID, &changed, &h.PreviousValue, &h.NewValue, &h.Month, &h.Year,
			&typ, &h.Reason, &h.PercentChange); err != nil {
			return nil, err
		}
		h.Date = parseTime(changed)
		h.Type = model.ChangeType(typ)
		out = append(out, h)
	}
	return out, rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertBaseSalary(ctx context.Context, db execer, amount decimal.Decimal) error {
	_, err := db.ExecContext(ctx, `INSERT INTO salary_settings (id, base_salary, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET base_salary = excluded.base_salary, updated_at = excluded.updated_at`,
		amount, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("saving base salary: %w", err)
	}
	return nil
}

func upsertPayday(ctx context.Context, db execer, payday int) error {
	if payday < 1 || payday > 31 {
		return fmt.Errorf("payday %d out of range 1-31", payday)
	}
	_, err := db.ExecContext(ctx, `INSERT INTO salary_settings (id, payday, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payday = excluded.payday, updated_at = excluded.updated_at`,
		payday, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("saving payday: %w", err)
	}
	return nil
}

func upsertOverrides(ctx context.Context, db execer, overrides map[string]decimal.Decimal) error {
	for key, amount := range overrides {
		year, month, ok := model.ParseMonthKey(key)
		if !ok {
			return fmt.Errorf("invalid month key %q", key)
		}
		_, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO salary_overrides
			(month_key, year, month, amount) VALUES (?, ?, ?, ?)`,
			model.MonthKey(year, month), year, month, amount)
		if err != nil {
			return fmt.Errorf("saving override %s: %w", key, err)
		}
	}
	return nil
}

func insertHistory(ctx context.Context, db execer, h model.SalaryHistoryEntry) error {
	_, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO salary_history
		(id, changed_at, previous_value, new_value, month, year, change_type, reason, percent_change)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, formatTime(h.Date), h.PreviousValue, h.NewValue, h.Month, h.Year,
		string(h.Type), h.Reason, h.PercentChange)
	if err != nil {
		return fmt.Errorf("saving salary history: %w", err)
	}
	return nil
}
