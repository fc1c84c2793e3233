package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/paycycle/internal/model"

	"github.com/google/uuid"
)

// RequestAdvance records a pending salary advance.
func (s *Store) RequestAdvance(ctx context.Context, a model.SalaryAdvance) (model.SalaryAdvance, error) {
	if a.Amount.IsNegative() || a.Amount.IsZero() {
		return model.SalaryAdvance{}, model.ErrInvalidAmount
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.RequestedAt.IsZero() {
		a.RequestedAt = time.Now()
	}
	a.Status = model.AdvancePending
	a.ReceivedAt = ""

	_, err := s.db.ExecContext(ctx, `INSERT INTO salary_advances
		(id, amount, expected_date, requested_at, status, received_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Amount, a.ExpectedDate, formatTime(a.RequestedAt), string(a.Status), a.ReceivedAt)
	if err != nil {
		return model.SalaryAdvance{}, fmt.Errorf("inserting advance: %w", err)
	}
	return a, nil
}

// UpdateAdvance changes the amount and expected date of a pending advance.
// Received advances are not matched and yield ErrNotFound.
func (s *Store) UpdateAdvance(ctx context.Context, a model.SalaryAdvance) error {
	if a.Amount.IsNegative() || a.Amount.IsZero() {
		return model.ErrInvalidAmount
	}
	if _, err := time.Parse(model.DateLayout, a.ExpectedDate); err != nil {
		return model.ErrInvalidDate
	}
	err := affectedOne(s.db.ExecContext(ctx, `UPDATE salary_advances
		SET amount = ?, expected_date = ?
		WHERE id = ? AND status = ?`,
		a.Amount, a.ExpectedDate, a.ID, string(model.AdvancePending)))
	if err != nil {
		return fmt.Errorf("updating advance %s: %w", a.ID, err)
	}
	return nil
}

// DeleteAdvance removes an advance and any deduction it produced.
func (s *Store) DeleteAdvance(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := affectedOne(tx.ExecContext(ctx, "DELETE FROM salary_advances WHERE id = ?", id)); err != nil {
		return fmt.Errorf("deleting advance %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM salary_deductions WHERE source_advance_id = ?", id); err != nil {
		return fmt.Errorf("deleting deductions for %s: %w", id, err)
	}
	return tx.Commit()
}

// ConfirmAdvance marks an advance received on receivedDate and records the
// matching salary deduction in the same transaction.
func (s *Store) ConfirmAdvance(ctx context.Context, id, receivedDate string) (model.SalaryDeduction, error) {
	if _, err := time.Parse(model.DateLayout, receivedDate); err != nil {
		return model.SalaryDeduction{}, model.ErrInvalidDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.SalaryDeduction{}, err
	}
	defer func() { _ = tx.Rollback() }()

	a, err := scanAdvance(tx.QueryRowContext(ctx, `SELECT id, amount, expected_date, requested_at, status, received_at
		FROM salary_advances WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.SalaryDeduction{}, ErrNotFound
	}
	if err != nil {
		return model.SalaryDeduction{}, err
	}
	if a.Status == model.AdvanceReceived {
		return model.SalaryDeduction{}, ErrAlreadyReceived
	}

	if _, err := tx.ExecContext(ctx, "UPDATE salary_advances SET status = ?, received_at = ? WHERE id = ?",
		string(model.AdvanceReceived), receivedDate, id); err != nil {
		return model.SalaryDeduction{}, fmt.Errorf("confirming advance: %w", err)
	}

	d := model.SalaryDeduction{
		ID:              uuid.NewString(),
		Amount:          a.Amount,
		Date:            receivedDate,
		SourceAdvanceID: id,
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO salary_deductions (id, amount, date, source_advance_id)
		VALUES (?, ?, ?, ?)`, d.ID, d.Amount, d.Date, d.SourceAdvanceID); err != nil {
		return model.SalaryDeduction{}, fmt.Errorf("recording deduction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.SalaryDeduction{}, err
	}
	return d, nil
}

// ListAdvances returns advances, most recently requested first.
func (v View) ListAdvances(ctx context.Context) ([]model.SalaryAdvance, error) {
	rows, err := v.q.QueryContext(ctx, `SELECT id, amount, expected_date, requested_at, status, received_at
		FROM salary_advances ORDER BY requested_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing advances: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.SalaryAdvance
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListDeductions returns every salary deduction ordered by date.
func (v View) ListDeductions(ctx context.Context) ([]model.SalaryDeduction, error) {
	rows, err := v.q.QueryContext(ctx, `SELECT id, amount, date, source_advance_id
		FROM salary_deductions ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("listing deductions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.SalaryDeduction
	for rows.Next() {
		var d model.SalaryDeduction
		if err := rows.Scan(&d.ID, &d.Amount, &d.Date, &d.SourceAdvanceID); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanAdvance(sc scanner) (model.SalaryAdvance, error) {
	var a model.SalaryAdvance
	var requested, status string
	if err := sc.Scan(&a.ID, &a.Amount, &a.ExpectedDate, &requested, &status, &a.ReceivedAt); err != nil {
		return model.SalaryAdvance{}, err
	}
	a.RequestedAt = parseTime(requested)
	a.Status = model.AdvanceStatus(status)
	return a, nil
}
