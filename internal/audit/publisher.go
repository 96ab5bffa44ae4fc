package audit

import (
	"context"
	"time"

	id "reratrack/pkg/domain"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily. When an
// outbox is attached, events are also handed to a Worker for external sinks.
type Publisher struct {
	store  Store
	outbox chan<- Event
}

type PublisherOption func(*Publisher)

// WithOutbox forwards every stored event to outbox without blocking. Events
// are dropped from the outbox, never from the store, when it is full.
func WithOutbox(outbox chan<- Event) PublisherOption {
	return func(p *Publisher) {
		p.outbox = outbox
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	if err := p.store.Append(ctx, base); err != nil {
		return err
	}
	if p.outbox != nil {
		select {
		case p.outbox <- base:
		default:
		}
	}
	return nil
}

func (p *Publisher) List(ctx context.Context, ownerID id.UserID) ([]Event, error) {
	return p.store.ListByOwner(ctx, ownerID)
}
