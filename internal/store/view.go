package store

import (
	"context"
	"database/sql"
	"fmt"
)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// View holds the list and lookup queries. On a Store it reads through the
// pool; inside Read every query sees the same database state.
type View struct {
	q querier
}

// Read runs fn in a read-only transaction. Writes committed by other
// connections while fn runs are not visible to it.
func (s *Store) Read(ctx context.Context, fn func(v View) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("starting read: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(View{q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}
