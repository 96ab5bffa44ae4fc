package audit

import (
	"context"
	"log/slog"
)

// Sink receives events for delivery outside the process.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Worker drains the publisher outbox into a Sink. Delivery failures are
// logged and skipped so a broken sink never stalls the ledger.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run blocks until ctx is cancelled or the inbox is closed.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			if err := w.sink.Publish(ctx, event); err != nil && w.logger != nil {
				w.logger.ErrorContext(ctx, "failed to publish audit event",
					"error", err,
					"action", string(event.Action),
					"subject", event.Subject,
					"request_id", event.RequestID,
				)
			}
		}
	}
}
