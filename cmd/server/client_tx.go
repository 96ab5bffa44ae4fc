package main

import (
	"context"
	"database/sql"
	"time"

	dErrors "reratrack/pkg/domain-errors"
	"reratrack/pkg/platform/tx"
)

// clientPostgresTx runs client registration and deletion in one SQL
// transaction. Stores join it through the transaction carried in ctx.
type clientPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newClientPostgresTx(db *sql.DB, timeout time.Duration) *clientPostgresTx {
	return &clientPostgresTx{db: db, timeout: timeout}
}

func (t *clientPostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	sqlTx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	return sqlTx.Commit()
}
