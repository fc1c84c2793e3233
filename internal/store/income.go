package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/google/uuid"
)

// AddIncome records an extra income entry.
func (s *Store) AddIncome(ctx context.Context, in model.ExtraIncome) (model.ExtraIncome, error) {
	if in.Amount.IsNegative() {
		return model.ExtraIncome{}, model.ErrInvalidAmount
	}
	if _, err := time.Parse(model.DateLayout, in.Date); err != nil {
		return model.ExtraIncome{}, model.ErrInvalidDate
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	in.Description = strings.TrimSpace(in.Description)

	_, err := s.db.ExecContext(ctx, `INSERT INTO extra_income (id, amount, description, date)
		VALUES (?, ?, ?, ?)`, in.ID, in.Amount, in.Description, in.Date)
	if err != nil {
		return model.ExtraIncome{}, fmt.Errorf("inserting income: %w", err)
	}
	return in, nil
}

// DeleteIncome removes an extra income entry.
func (s *Store) DeleteIncome(ctx context.Context, id string) error {
	if err := affectedOne(s.db.ExecContext(ctx, "DELETE FROM extra_income WHERE id = ?", id)); err != nil {
		return fmt.Errorf("deleting income %s: %w", id, err)
	}
	return nil
}

// ListIncome returns extra income, newest first.
func (v View) ListIncome(ctx context.Context) ([]model.ExtraIncome, error) {
	rows, err := v.q.QueryContext(ctx, `SELECT id, amount, description, date
		FROM extra_income ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing income: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.ExtraIncome
	for rows.Next() {
		var in model.ExtraIncome
		if err := rows.Scan(&in.ID, &in.Amount, &in.Description, &in.Date); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
