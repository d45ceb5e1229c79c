package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/arsdatascience/elite-finder-platform/internal/database"
	"github.com/jackc/pgx/v5"
)

// fakeTx records commit/rollback calls. The embedded pgx.Tx is nil; only
// the methods TxRunner touches are implemented.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
}

func (b *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return b.tx, nil
}

func TestRunInTx_commitsOnSuccess(t *testing.T) {
	tx := &fakeTx{}
	runner := database.NewTxRunner(&fakeBeginner{tx: tx})

	err := runner.RunInTx(context.Background(), func(pgx.Tx) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tx.committed {
		t.Error("expected commit")
	}
	if tx.rolledBack {
		t.Error("unexpected rollback after commit")
	}
}

func TestRunInTx_rollsBackOnError(t *testing.T) {
	tx := &fakeTx{}
	runner := database.NewTxRunner(&fakeBeginner{tx: tx})

	sentinel := errors.New("boom")
	err := runner.RunInTx(context.Background(), func(pgx.Tx) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error unchanged, got %v", err)
	}
	if tx.committed {
		t.Error("unexpected commit")
	}
	if !tx.rolledBack {
		t.Error("expected rollback")
	}
}

func TestRunInTx_rollsBackOnPanic(t *testing.T) {
	tx := &fakeTx{}
	runner := database.NewTxRunner(&fakeBeginner{tx: tx})

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = runner.RunInTx(context.Background(), func(pgx.Tx) error { panic("work panicked") })
	}()

	if !tx.rolledBack {
		t.Error("expected rollback on panic")
	}
}

func TestRunInTx_beginError(t *testing.T) {
	runner := database.NewTxRunner(&fakeBeginner{beginErr: errors.New("pool exhausted")})

	err := runner.RunInTx(context.Background(), func(pgx.Tx) error { return nil })
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRunInTx_commitError(t *testing.T) {
	tx := &fakeTx{commitErr: errors.New("connection lost")}
	runner := database.NewTxRunner(&fakeBeginner{tx: tx})

	err := runner.RunInTx(context.Background(), func(pgx.Tx) error { return nil })
	if err == nil {
		t.Fatal("expected commit error to surface")
	}
}
