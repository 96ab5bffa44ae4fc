package audit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	id "reratrack/pkg/domain"
	"reratrack/pkg/requestcontext"
)

type AuditSuite struct {
	suite.Suite
	store *InMemoryStore
	owner id.UserID
	ctx   context.Context
}

func TestAuditSuite(t *testing.T) {
	suite.Run(t, new(AuditSuite))
}

func (s *AuditSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.owner = id.UserID(uuid.New())
	s.ctx = requestcontext.WithRequestID(context.Background(), "req-42")
}

func (s *AuditSuite) TestPublisherStoresPerOwner() {
	pub := NewPublisher(s.store)
	other := id.UserID(uuid.New())

	s.Require().NoError(pub.Emit(s.ctx, Event{OwnerID: s.owner, Action: ActionInvoiceCreated, Subject: "p1"}))
	s.Require().NoError(pub.Emit(s.ctx, Event{OwnerID: other, Action: ActionInvoiceCreated, Subject: "p2"}))

	events, err := pub.List(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal("p1", events[0].Subject)
	s.False(events[0].Timestamp.IsZero(), "timestamp is defaulted")
}

func (s *AuditSuite) TestOutboxNeverBlocks() {
	outbox := make(chan Event, 1)
	pub := NewPublisher(s.store, WithOutbox(outbox))

	for range 3 {
		s.Require().NoError(pub.Emit(s.ctx, Event{OwnerID: s.owner, Action: ActionPaymentRecorded}))
	}

	events, err := s.store.ListByOwner(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Len(events, 3, "store keeps every event")
	s.Len(outbox, 1, "outbox drops overflow")
}

func (s *AuditSuite) TestEmitterLogsAndPublishes() {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(s.ctx, fixed)

	NewEmitter(logger, NewPublisher(s.store)).Record(ctx, ActionPaymentRejected, s.owner, "pay-1",
		"reason", "exceeds_balance")

	events, err := s.store.ListByOwner(ctx, s.owner)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(ActionPaymentRejected, events[0].Action)
	s.Equal("exceeds_balance", events[0].Detail)
	s.Equal("req-42", events[0].RequestID)
	s.Equal(fixed, events[0].Timestamp)
	s.Contains(buf.String(), `"log_type":"audit"`)
	s.Contains(buf.String(), `"event":"payment_rejected"`)
}

func (s *AuditSuite) TestNilEmitterIsNoop() {
	var e *Emitter
	s.NotPanics(func() {
		e.Record(s.ctx, ActionClientCreated, s.owner, "c1")
	})
}

type failingPublisher struct{}

func (failingPublisher) Emit(context.Context, Event) error { return errors.New("disk full") }

func (s *AuditSuite) TestEmitterSwallowsPublishErrors() {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	NewEmitter(logger, failingPublisher{}).Record(s.ctx, ActionClientDeleted, s.owner, "c1")

	s.Contains(buf.String(), "failed to emit audit event")
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (r *recordingSink) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("broker down")
	}
	r.events = append(r.events, e)
	return nil
}

func TestWorkerDrainsInboxUntilClosed(t *testing.T) {
	inbox := make(chan Event, 2)
	sink := &recordingSink{}
	inbox <- Event{Action: ActionInvoiceCreated}
	inbox <- Event{Action: ActionPaymentDeleted}
	close(inbox)

	err := NewWorker(sink, inbox, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, sink.events, 2)
}

func TestWorkerStopsOnCancelAndSurvivesSinkErrors(t *testing.T) {
	inbox := make(chan Event, 1)
	sink := &recordingSink{fail: true}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- NewWorker(sink, inbox, logger).Run(ctx) }()
	inbox <- Event{Action: ActionPaymentRecorded}
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
