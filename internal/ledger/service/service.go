package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"reratrack/internal/audit"
	"reratrack/internal/ledger/idempotency"
	"reratrack/internal/ledger/metrics"
	"reratrack/internal/ledger/models"
	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
	"reratrack/pkg/platform/sentinel"
	"reratrack/pkg/requestcontext"
)

// MaxNotesLength bounds the free-text note on a receipt.
const MaxNotesLength = 1024

// Store persists payment records.
type Store interface {
	Create(ctx context.Context, record *models.PaymentRecord) error
	FindByID(ctx context.Context, paymentID id.PaymentID) (*models.PaymentRecord, error)
	ListByClient(ctx context.Context, ownerID id.UserID, clientID id.ClientID) ([]*models.PaymentRecord, error)
	ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.PaymentRecord, error)
	Execute(ctx context.Context, paymentID id.PaymentID, validate func(*models.PaymentRecord) error, mutate func(*models.PaymentRecord)) (*models.PaymentRecord, error)
	DeleteIf(ctx context.Context, paymentID id.PaymentID, validate func(*models.PaymentRecord) error) (*models.PaymentRecord, error)
	DeleteByClient(ctx context.Context, clientID id.ClientID) error
}

// ClientChecker answers whether an owner has a client. The client registry
// implements it.
type ClientChecker interface {
	Exists(ctx context.Context, ownerID id.UserID, clientID id.ClientID) (bool, error)
}

// IdempotencyStore reserves Idempotency-Key values and remembers which
// reservations finished.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (idempotency.State, error)
	Complete(ctx context.Context, key string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

// CreateInvoiceCommand carries the fields of a new invoice.
type CreateInvoiceCommand struct {
	ClientID    id.ClientID
	Amount      decimal.Decimal
	Description string
	DueDate     *time.Time
}

// RecordPaymentCommand carries one receipt. A zero Date means the request
// time. IdempotencyKey is optional.
type RecordPaymentCommand struct {
	Amount         decimal.Decimal
	Date           time.Time
	Notes          string
	IdempotencyKey string
}

// Service owns invoices and their partial receipts.
type Service struct {
	store          Store
	clients        ClientChecker
	idempotency    IdempotencyStore
	idempotencyTTL time.Duration
	logger         *slog.Logger
	audit          *audit.Emitter
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditEmitter(emitter *audit.Emitter) Option {
	return func(s *Service) {
		s.audit = emitter
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithIdempotency enables Idempotency-Key handling on RecordPayment.
func WithIdempotency(store IdempotencyStore, ttl time.Duration) Option {
	return func(s *Service) {
		s.idempotency = store
		if ttl > 0 {
			s.idempotencyTTL = ttl
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(store Store, clients ClientChecker, opts ...Option) *Service {
	s := &Service{
		store:          store,
		clients:        clients,
		idempotencyTTL: idempotency.DefaultTTL,
		logger:         slog.Default(),
		tracer:         otel.Tracer("reratrack/internal/ledger"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInvoice opens a payment record for one of the owner's clients.
func (s *Service) CreateInvoice(ctx context.Context, ownerID id.UserID, cmd CreateInvoiceCommand) (*models.PaymentRecord, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.CreateInvoice", trace.WithAttributes(
		attribute.String("client_id", cmd.ClientID.String()),
	))
	defer span.End()

	record, err := models.NewPaymentRecord(id.PaymentID(uuid.New()), cmd.ClientID, ownerID,
		cmd.Amount, cmd.Description, cmd.DueDate, requestcontext.Now(ctx))
	if err != nil {
		return nil, fail(span, err)
	}

	exists, err := s.clients.Exists(ctx, ownerID, cmd.ClientID)
	if err != nil {
		return nil, fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check client"))
	}
	if !exists {
		return nil, fail(span, dErrors.New(dErrors.CodeNotFound, "Client not found"))
	}

	if err := s.store.Create(ctx, record); err != nil {
		return nil, fail(span, wrapLedgerErr(err, "create invoice"))
	}

	s.audit.Record(ctx, audit.ActionInvoiceCreated, ownerID, record.ID.String(),
		"client_id", record.ClientID.String(),
		"amount", record.Amount.String(),
	)
	if s.metrics != nil {
		s.metrics.IncrementInvoicesCreated()
	}
	return record, nil
}

// RecordPayment appends a receipt to an invoice. The balance check and the
// append run atomically under the store's Execute, so two concurrent
// receipts can never together exceed the invoiced amount.
func (s *Service) RecordPayment(ctx context.Context, ownerID id.UserID, paymentID id.PaymentID, cmd RecordPaymentCommand) (*models.PaymentRecord, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.RecordPayment", trace.WithAttributes(
		attribute.String("payment_id", paymentID.String()),
		attribute.String("amount", cmd.Amount.String()),
	))
	defer span.End()

	if err := models.ValidateAmount(cmd.Amount); err != nil {
		s.reject(ctx, ownerID, paymentID, "invalid_amount", err)
		return nil, fail(span, err)
	}
	notes := strings.TrimSpace(cmd.Notes)
	if len(notes) > MaxNotesLength {
		return nil, fail(span, dErrors.New(dErrors.CodeValidation, "notes are too long"))
	}
	key, err := idempotency.ValidateKey(cmd.IdempotencyKey)
	if err != nil {
		return nil, fail(span, err)
	}

	var reserved string
	if key != "" && s.idempotency != nil {
		scoped := idempotency.Key(ownerID, paymentID, key)
		state, err := s.idempotency.Reserve(ctx, scoped, s.idempotencyTTL)
		if err != nil {
			return nil, fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check idempotency key"))
		}
		if state != idempotency.Reserved {
			s.logger.InfoContext(ctx, "idempotent payment replay",
				"payment_id", paymentID.String(),
				"state", state.String(),
				"request_id", requestcontext.RequestID(ctx),
			)
			span.SetAttributes(attribute.String("idempotent_replay", state.String()))
			if state == idempotency.InProgress {
				return nil, fail(span, dErrors.New(dErrors.CodeConflict, "request in progress"))
			}
			return s.Get(ctx, ownerID, paymentID)
		}
		reserved = scoped
	}

	now := requestcontext.Now(ctx)
	paidOn := cmd.Date
	if paidOn.IsZero() {
		paidOn = now
	}
	receipt := models.Transaction{
		ID:        id.TransactionID(uuid.New()),
		Amount:    cmd.Amount,
		Date:      paidOn,
		Notes:     notes,
		Timestamp: now,
	}

	record, err := s.store.Execute(ctx, paymentID,
		func(p *models.PaymentRecord) error {
			if p.OwnerID != ownerID {
				return sentinel.ErrNotFound
			}
			return p.CanRecord(receipt.Amount)
		},
		func(p *models.PaymentRecord) {
			p.ApplyPayment(receipt)
		},
	)
	if err != nil {
		if reserved != "" {
			if rerr := s.idempotency.Release(ctx, reserved); rerr != nil {
				s.logger.WarnContext(ctx, "failed to release idempotency key",
					"payment_id", paymentID.String(),
					"error", rerr,
				)
			}
		}
		err = wrapLedgerErr(err, "record payment")
		switch dErrors.CodeOf(err) {
		case dErrors.CodeInvalidAmount:
			s.reject(ctx, ownerID, paymentID, "exceeds_balance", err)
		case dErrors.CodeNotFound:
			s.reject(ctx, ownerID, paymentID, "not_found", err)
		}
		return nil, fail(span, err)
	}

	if reserved != "" {
		if err := s.idempotency.Complete(ctx, reserved, s.idempotencyTTL); err != nil {
			s.logger.WarnContext(ctx, "failed to complete idempotency key",
				"payment_id", paymentID.String(),
				"error", err,
			)
		}
	}

	s.audit.Record(ctx, audit.ActionPaymentRecorded, ownerID, paymentID.String(),
		"amount", receipt.Amount.String(),
		"paid_amount", record.PaidAmount.String(),
		"status", string(record.Status()),
	)
	if s.metrics != nil {
		s.metrics.ObservePaymentRecorded(receipt.Amount)
	}
	return record, nil
}

// DeletePayment removes a settled invoice and its receipts.
func (s *Service) DeletePayment(ctx context.Context, ownerID id.UserID, paymentID id.PaymentID) error {
	ctx, span := s.tracer.Start(ctx, "ledger.DeletePayment", trace.WithAttributes(
		attribute.String("payment_id", paymentID.String()),
	))
	defer span.End()

	deleted, err := s.store.DeleteIf(ctx, paymentID, func(p *models.PaymentRecord) error {
		if p.OwnerID != ownerID {
			return sentinel.ErrNotFound
		}
		return p.CanDelete()
	})
	if err != nil {
		return fail(span, wrapLedgerErr(err, "delete payment"))
	}

	s.audit.Record(ctx, audit.ActionPaymentDeleted, ownerID, paymentID.String(),
		"client_id", deleted.ClientID.String(),
		"amount", deleted.Amount.String(),
	)
	if s.metrics != nil {
		s.metrics.IncrementDeleted()
	}
	return nil
}

func (s *Service) Get(ctx context.Context, ownerID id.UserID, paymentID id.PaymentID) (*models.PaymentRecord, error) {
	record, err := s.store.FindByID(ctx, paymentID)
	if err != nil {
		return nil, wrapLedgerErr(err, "load payment")
	}
	if record.OwnerID != ownerID {
		return nil, errPaymentNotFound()
	}
	return record, nil
}

// ListByClient returns a client's invoices oldest first. Unknown clients
// yield an empty list.
func (s *Service) ListByClient(ctx context.Context, ownerID id.UserID, clientID id.ClientID) ([]*models.PaymentRecord, error) {
	records, err := s.store.ListByClient(ctx, ownerID, clientID)
	if err != nil {
		return nil, wrapLedgerErr(err, "list payments")
	}
	return records, nil
}

// ListByOwner returns every invoice of the owner oldest first.
func (s *Service) ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.PaymentRecord, error) {
	records, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, wrapLedgerErr(err, "list payments")
	}
	return records, nil
}

// DeleteByClient removes all of a client's invoices regardless of settlement.
// It is only used when the client itself is deleted.
func (s *Service) DeleteByClient(ctx context.Context, clientID id.ClientID) error {
	if err := s.store.DeleteByClient(ctx, clientID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete client payments")
	}
	return nil
}

func (s *Service) reject(ctx context.Context, ownerID id.UserID, paymentID id.PaymentID, reason string, err error) {
	s.audit.Record(ctx, audit.ActionPaymentRejected, ownerID, paymentID.String(),
		"reason", reason,
		"error", dErrors.MessageOf(err),
	)
	if s.metrics != nil {
		s.metrics.IncrementRejected(reason)
	}
}

func errPaymentNotFound() error {
	return dErrors.New(dErrors.CodeNotFound, "Payment not found")
}

func wrapLedgerErr(err error, action string) error {
	var de *dErrors.Error
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return errPaymentNotFound()
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "payment was modified concurrently, retry")
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "ledger operation timed out")
	case errors.As(err, &de):
		return err
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
	}
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	return err
}
