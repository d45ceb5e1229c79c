package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Beginner starts transactions. *pgxpool.Pool satisfies this interface.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner executes units of work inside a single database transaction.
// Each call acquires one pooled connection for its duration and releases
// it on every exit path, including panics.
type TxRunner struct {
	db Beginner
}

// NewTxRunner creates a TxRunner over the given pool.
func NewTxRunner(db Beginner) *TxRunner {
	return &TxRunner{db: db}
}

// RunInTx runs fn inside a transaction. The transaction is committed when
// fn returns nil and rolled back when fn returns an error or panics; the
// error from fn is returned unchanged so callers can match on sentinels.
func (r *TxRunner) RunInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	// Rollback after Commit is a no-op; this also releases the
	// connection if fn panics.
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
