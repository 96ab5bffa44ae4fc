package service

import (
	"context"
	"sync"
	"time"

	dErrors "reratrack/pkg/domain-errors"
)

// TxRunner provides the transactional boundary for client creation and
// deletion. fn receives the context that stores must use to join it.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// DefaultTxTimeout bounds a transaction when the caller sets no deadline.
const DefaultTxTimeout = 5 * time.Second

// InMemoryTx serialises client transactions with a single lock. It cannot
// roll back, so Service compensates failed creations itself.
type InMemoryTx struct {
	mu      sync.Mutex
	timeout time.Duration
}

func NewInMemoryTx(timeout time.Duration) *InMemoryTx {
	return &InMemoryTx{timeout: timeout}
}

func (t *InMemoryTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	timeout := t.timeout
	if timeout == 0 {
		timeout = DefaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx)
}
