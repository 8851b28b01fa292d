package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	pgx.Tx
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
	opts     pgx.TxOptions
}

func (b *fakeBeginner) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	b.opts = opts
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return b.tx, nil
}

func TestWithTxCommitsAndUsesRepeatableRead(t *testing.T) {
	pool := &fakeBeginner{tx: &fakeTx{}}

	err := WithTx(context.Background(), pool, func(tx pgx.Tx) error { return nil })
	require.NoError(t, err)
	assert.True(t, pool.tx.committed)
	assert.Equal(t, pgx.RepeatableRead, pool.opts.IsoLevel)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	pool := &fakeBeginner{tx: &fakeTx{}}
	boom := errors.New("boom")

	err := WithTx(context.Background(), pool, func(tx pgx.Tx) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.True(t, pool.tx.rolledBack)
	assert.False(t, pool.tx.committed)
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	pool := &fakeBeginner{tx: &fakeTx{}}

	require.Panics(t, func() {
		_ = WithTx(context.Background(), pool, func(tx pgx.Tx) error { panic("boom") })
	})
	assert.True(t, pool.tx.rolledBack)
	assert.False(t, pool.tx.committed)
}

func TestWithTxWrapsCommitError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: uniqueViolation}
	pool := &fakeBeginner{tx: &fakeTx{commitErr: pgErr}}

	err := WithTx(context.Background(), pool, func(tx pgx.Tx) error { return nil })
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestWithTxBeginFailure(t *testing.T) {
	pool := &fakeBeginner{beginErr: errors.New("pool exhausted")}

	err := WithTx(context.Background(), pool, func(tx pgx.Tx) error {
		t.Fatal("fn must not run when begin fails")
		return nil
	})
	require.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: uniqueViolation}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "40001"}))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
	assert.False(t, IsUniqueViolation(nil))
}
