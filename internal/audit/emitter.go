package audit

import (
	"context"
	"log/slog"

	"reratrack/pkg/attrs"
	id "reratrack/pkg/domain"
	"reratrack/pkg/requestcontext"
)

// EventPublisher is the write side of Publisher.
type EventPublisher interface {
	Emit(ctx context.Context, base Event) error
}

// Emitter writes an audit log line and publishes the matching Event.
// A nil *Emitter is valid and does nothing.
type Emitter struct {
	logger    *slog.Logger
	publisher EventPublisher
}

func NewEmitter(logger *slog.Logger, publisher EventPublisher) *Emitter {
	return &Emitter{logger: logger, publisher: publisher}
}

// Record logs action with attributes and publishes it. The "reason"
// attribute, when present, becomes the event detail. Publishing failures are
// logged and never returned.
func (e *Emitter) Record(ctx context.Context, action Action, ownerID id.UserID, subject string, attributes ...any) {
	if e == nil {
		return
	}
	requestID := requestcontext.RequestID(ctx)
	if e.logger != nil {
		args := append([]any{
			"owner_id", ownerID.String(),
			"subject", subject,
			"request_id", requestID,
		}, attributes...)
		args = append(args, "event", string(action), "log_type", "audit")
		e.logger.InfoContext(ctx, string(action), args...)
	}
	if e.publisher == nil {
		return
	}
	err := e.publisher.Emit(ctx, Event{
		Timestamp: requestcontext.Now(ctx),
		OwnerID:   ownerID,
		Action:    action,
		Subject:   subject,
		Detail:    attrs.ExtractString(attributes, "reason"),
		RequestID: requestID,
	})
	if err != nil && e.logger != nil {
		e.logger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"action", string(action),
			"request_id", requestID,
		)
	}
}
