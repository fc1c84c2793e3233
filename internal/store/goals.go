package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/google/uuid"
)

// ErrEmptyTitle is returned for goals without a title.
var ErrEmptyTitle = errors.New("store: goal title is required")

// AddGoal inserts a financial goal.
func (s *Store) AddGoal(ctx context.Context, g model.FinancialGoal) (model.FinancialGoal, error) {
	g.Title = strings.TrimSpace(g.Title)
	if g.Title == "" {
		return model.FinancialGoal{}, ErrEmptyTitle
	}
	if g.TargetAmount.IsNegative() || g.CurrentAmount.IsNegative() {
		return model.FinancialGoal{}, model.ErrInvalidAmount
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO goals
		(id, title, target_amount, current_amount, deadline, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.Title, g.TargetAmount, g.CurrentAmount, g.Deadline, formatTime(g.CreatedAt))
	if err != nil {
		return model.FinancialGoal{}, fmt.Errorf("inserting goal: %w", err)
	}
	return g, nil
}

// UpdateGoal replaces the editable fields of a goal.
func (s *Store) UpdateGoal(ctx context.Context, g model.FinancialGoal) error {
	if g.TargetAmount.IsNegative() || g.CurrentAmount.IsNegative() {
		return model.ErrInvalidAmount
	}
	err := affectedOne(s.db.ExecContext(ctx, `UPDATE goals
		SET title = ?, target_amount = ?, current_amount = ?, deadline = ?
		WHERE id = ?`,
		strings.TrimSpace(g.Title), g.TargetAmount, g.CurrentAmount, g.Deadline, g.ID))
	if err != nil {
		return fmt.Errorf("updating goal %s: %w", g.ID, err)
	}
	return nil
}

// DeleteGoal removes a goal.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	if err := affectedOne(s.db.ExecContext(ctx, "DELETE FROM goals WHERE id = ?", id)); err != nil {
		return fmt.Errorf("deleting goal %s: %w", id, err)
	}
	return nil
}

// ListGoals returns goals, newest first.
func (v View) ListGoals(ctx context.Context) ([]model.FinancialGoal, error) {
	rows, err := v.q.QueryContext(ctx, `SELECT id, title, target_amount, current_amount, deadline, created_at
		FROM goals ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.FinancialGoal
	for rows.Next() {
		var g model.FinancialGoal
		var created string
		if err := rows.Scan(&g.ID, &g.Title, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, &created); err != nil {
			return nil, err
		}
		g.CreatedAt = parseTime(created)
		out = append(out, g)
	}
	return out, rows.Err()
}
