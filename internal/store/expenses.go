package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/google/uuid"
)

// AddExpense validates and inserts an expense. A missing ID or CreatedAt is
// filled in and the stored record is returned.
func (s *Store) AddExpense(ctx context.Context, e model.Expense) (model.Expense, error) {
	e = normalizeExpense(e)
	if err := e.Validate(); err != nil {
		return model.Expense{}, fmt.Errorf("%w: %w", model.ErrInvalidExpense, err)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO expenses
		(id, description, amount, date, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Description, e.Amount, e.Date, e.Category, formatTime(e.CreatedAt))
	if err != nil {
		return model.Expense{}, fmt.Errorf("inserting expense: %w", err)
	}
	return e, nil
}

// UpdateExpense replaces every editable field of an existing expense.
func (s *Store) UpdateExpense(ctx context.Context, e model.Expense) error {
	e = normalizeExpense(e)
	if err := e.Validate(); err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidExpense, err)
	}
	err := affectedOne(s.db.ExecContext(ctx, `UPDATE expenses
		SET description = ?, amount = ?, date = ?, category = ?
		WHERE id = ?`,
		e.Description, e.Amount, e.Date, e.Category, e.ID))
	if err != nil {
		return fmt.Errorf("updating expense %s: %w", e.ID, err)
	}
	return nil
}

// DeleteExpense removes an expense by ID.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	if err := affectedOne(s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)); err != nil {
		return fmt.Errorf("deleting expense %s: %w", id, err)
	}
	return nil
}

// GetExpense loads a single expense.
func (s *Store) GetExpense(ctx context.Context, id string) (model.Expense, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, description, amount, date, category, created_at
		FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Expense{}, ErrNotFound
	}
	return e, err
}

// ListExpenses returns every expense, newest date first.
func (v View) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	rows, err := v.q.QueryContext(ctx, `SELECT id, description, amount, date, category, created_at
		FROM expenses ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(sc scanner) (model.Expense, error) {
	var e model.Expense
	var created string
	if err := sc.Scan(&e.ID, &e.Description, &e.Amount, &e.Date, &e.Category, &created); err != nil {
		return model.Expense{}, err
	}
	e.CreatedAt = parseTime(created)
	return e, nil
}

func normalizeExpense(e model.Expense) model.Expense {
	e.Description = strings.TrimSpace(e.Description)
	e.Date = strings.TrimSpace(e.Date)
	e.Category = e.CategoryOrOther()
	if !model.IsKnownCategory(e.Category) {
		e.Category = model.CategoryOther
	}
	return e
}
