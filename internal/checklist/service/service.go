package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"reratrack/internal/audit"
	"reratrack/internal/checklist/metrics"
	"reratrack/internal/checklist/models"
	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
	"reratrack/pkg/platform/sentinel"
	"reratrack/pkg/requestcontext"
)

// Store persists checklists keyed by client.
type Store interface {
	Create(ctx context.Context, checklist *models.Checklist) error
	FindByClient(ctx context.Context, clientID id.ClientID) (*models.Checklist, error)
	FindByClients(ctx context.Context, clientIDs []id.ClientID) (map[id.ClientID]*models.Checklist, error)
	Execute(ctx context.Context, clientID id.ClientID, validate func(*models.Checklist) error, mutate func(*models.Checklist)) (*models.Checklist, error)
	DeleteByClient(ctx context.Context, clientID id.ClientID) error
}

// ClientChecker answers whether an owner has a client.
type ClientChecker interface {
	Exists(ctx context.Context, ownerID id.UserID, clientID id.ClientID) (bool, error)
}

// Service provisions and mutates per-client document checklists.
type Service struct {
	store    Store
	clients  ClientChecker
	template models.Template
	logger   *slog.Logger
	audit    *audit.Emitter
	metrics  *metrics.Metrics
	tracer   trace.Tracer
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

// WithTemplate replaces the built-in default document list.
func WithTemplate(tmpl models.Template) Option {
	return func(s *Service) {
		s.template = tmpl
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(store Store, clients ClientChecker, opts ...Option) *Service {
	s := &Service{
		store:    store,
		clients:  clients,
		template: models.DefaultTemplate(),
		logger:   slog.Default(),
		tracer:   otel.Tracer("reratrack/internal/checklist"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Provision creates the default checklist for a newly created client.
// It runs inside the client-creation transaction when one is in ctx.
func (s *Service) Provision(ctx context.Context, clientID id.ClientID, ownerID id.UserID) (*models.Checklist, error) {
	ctx, span := s.startSpan(ctx, "checklist.Provision", clientID)
	defer span.End()

	checklist, err := models.NewChecklist(id.ChecklistID(uuid.New()), clientID, ownerID, s.template, requestcontext.Now(ctx))
	if err != nil {
		return nil, s.fail(span, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err)))
	}
	if err := s.store.Create(ctx, checklist); err != nil {
		return nil, s.fail(span, wrapChecklistErr(err, "provision checklist"))
	}

	s.audit.Record(ctx, audit.ActionChecklistProvisioned, ownerID, clientID.String(),
		"client_id", clientID.String(),
		"documents", len(checklist.Items),
	)
	if s.metrics != nil {
		s.metrics.IncrementProvisioned()
	}
	return checklist, nil
}

// GetByClient returns the owner's checklist for a client.
func (s *Service) GetByClient(ctx context.Context, ownerID id.UserID, clientID id.ClientID) (*models.Checklist, error) {
	checklist, err := s.store.FindByClient(ctx, clientID)
	if err != nil {
		return nil, wrapChecklistErr(err, "load checklist")
	}
	if checklist.OwnerID != ownerID {
		return nil, errDocumentsNotFound()
	}
	return checklist, nil
}

// SetStatus sets a document's status, adding the document when it is not on
// the checklist yet. Repeating the same call only refreshes LastUpdated.
func (s *Service) SetStatus(ctx context.Context, ownerID id.UserID, clientID id.ClientID, documentName, status string) (*models.Checklist, error) {
	name, err := models.NormalizeName(documentName)
	if err != nil {
		return nil, err
	}
	parsed, err := models.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	ctx, span := s.startSpan(ctx, "checklist.SetStatus", clientID)
	defer span.End()

	now := requestcontext.Now(ctx)
	checklist, err := s.store.Execute(ctx, clientID,
		func(c *models.Checklist) error {
			return requireOwner(c, ownerID)
		},
		func(c *models.Checklist) {
			c.ApplyStatus(name, parsed, now)
		},
	)
	if err != nil {
		return nil, s.fail(span, wrapChecklistErr(err, "update checklist"))
	}

	s.audit.Record(ctx, audit.ActionChecklistStatusSet, ownerID, clientID.String(),
		"document", name,
		"status", string(parsed),
	)
	if s.metrics != nil {
		s.metrics.IncrementUpdate("set_status")
	}
	return checklist, nil
}

// AddItem appends a new document at not-received. Names already on the
// checklist are rejected with a conflict.
func (s *Service) AddItem(ctx context.Context, ownerID id.UserID, clientID id.ClientID, documentName string) (*models.Checklist, error) {
	name, err := models.NormalizeName(documentName)
	if err != nil {
		return nil, err
	}

	ctx, span := s.startSpan(ctx, "checklist.AddItem", clientID)
	defer span.End()

	now := requestcontext.Now(ctx)
	checklist, err := s.store.Execute(ctx, clientID,
		func(c *models.Checklist) error {
			if err := requireOwner(c, ownerID); err != nil {
				return err
			}
			return c.CanAddItem(name)
		},
		func(c *models.Checklist) {
			c.ApplyAddItem(name, now)
		},
	)
	if err != nil {
		return nil, s.fail(span, wrapChecklistErr(err, "add checklist item"))
	}

	s.audit.Record(ctx, audit.ActionChecklistItemAdded, ownerID, clientID.String(),
		"document", name,
	)
	if s.metrics != nil {
		s.metrics.IncrementUpdate("add_item")
	}
	return checklist, nil
}

// ListPending maps each requested client to its not-received documents in
// checklist order. An unknown client is not found; a client of this owner
// without a checklist is an integrity failure and is reported rather than
// skipped.
func (s *Service) ListPending(ctx context.Context, ownerID id.UserID, clientIDs []id.ClientID) (map[id.ClientID][]string, error) {
	unique := make([]id.ClientID, 0, len(clientIDs))
	seen := make(map[id.ClientID]struct{}, len(clientIDs))
	for _, clientID := range clientIDs {
		if _, dup := seen[clientID]; dup {
			continue
		}
		seen[clientID] = struct{}{}
		unique = append(unique, clientID)
	}

	found, err := s.store.FindByClients(ctx, unique)
	if err != nil {
		return nil, wrapChecklistErr(err, "list pending documents")
	}

	out := make(map[id.ClientID][]string, len(unique))
	for _, clientID := range unique {
		checklist, ok := found[clientID]
		if !ok {
			return nil, s.missingChecklist(ctx, ownerID, clientID)
		}
		if checklist.OwnerID != ownerID {
			return nil, errDocumentsNotFound()
		}
		out[clientID] = checklist.Pending()
	}
	return out, nil
}

// missingChecklist tells an unknown client apart from a registered client
// whose checklist is gone. Only the second is an integrity failure.
func (s *Service) missingChecklist(ctx context.Context, ownerID id.UserID, clientID id.ClientID) error {
	exists, err := s.clients.Exists(ctx, ownerID, clientID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check client")
	}
	if !exists {
		return dErrors.New(dErrors.CodeNotFound, "Client not found")
	}
	s.logger.ErrorContext(ctx, "client has no checklist",
		"client_id", clientID.String(),
		"owner_id", ownerID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return dErrors.New(dErrors.CodeIntegrity, "client "+clientID.String()+" has no document checklist")
}

// DeleteByClient removes a client's checklist as part of client deletion.
func (s *Service) DeleteByClient(ctx context.Context, clientID id.ClientID) error {
	if err := s.store.DeleteByClient(ctx, clientID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete checklist")
	}
	return nil
}

func requireOwner(c *models.Checklist, ownerID id.UserID) error {
	if c.OwnerID != ownerID {
		return sentinel.ErrNotFound
	}
	return nil
}

func errDocumentsNotFound() error {
	return dErrors.New(dErrors.CodeNotFound, "documents not found")
}

func wrapChecklistErr(err error, action string) error {
	var de *dErrors.Error
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return errDocumentsNotFound()
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "checklist already exists for client")
	case dErrors.HasCode(err, dErrors.CodeInvariantViolation):
		return dErrors.New(dErrors.CodeConflict, dErrors.MessageOf(err))
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "checklist operation timed out")
	case errors.As(err, &de):
		return err
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
	}
}

func (s *Service) startSpan(ctx context.Context, name string, clientID id.ClientID) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("client_id", clientID.String()),
	))
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	return err
}
