package sqlutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// Beginner starts transactions; *sql.DB and *sql.Conn satisfy it.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// WithTx runs fn inside a transaction with the driver's default options.
func WithTx(ctx context.Context, db Beginner, fn func(*sql.Tx) error) error {
	return WithTxOptions(ctx, db, nil, fn)
}

// WithTxOptions commits when fn returns nil and rolls back otherwise. fn's
// error is returned as is, so callers can match their own sentinels. A
// panic in fn rolls back and is re-raised.
func WithTxOptions(ctx context.Context, db Beginner, opts *sql.TxOptions, fn func(*sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}

		rollback(tx)
		panic(r)
	}()

	err = fn(tx)
	if err != nil {
		if rbErr := rollback(tx); rbErr != nil {
			return errors.Join(err, rbErr)
		}

		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func rollback(tx *sql.Tx) error {
	err := tx.Rollback()
	if err == nil || errors.Is(err, sql.ErrTxDone) {
		return nil
	}

	slog.Error("rollback failed", "error", err)

	return fmt.Errorf("rollback tx: %w", err)
}
