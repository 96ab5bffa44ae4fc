package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"reratrack/internal/audit"
	checklistmodels "reratrack/internal/checklist/models"
	"reratrack/internal/client/models"
	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
	"reratrack/pkg/platform/sentinel"
	"reratrack/pkg/requestcontext"
)

// Store persists clients.
type Store interface {
	Create(ctx context.Context, client *models.Client) error
	FindByID(ctx context.Context, clientID id.ClientID) (*models.Client, error)
	ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.Client, error)
	Search(ctx context.Context, ownerID id.UserID, query string) ([]*models.Client, error)
	Delete(ctx context.Context, clientID id.ClientID) error
}

// ChecklistProvisioner creates and removes a client's document checklist.
type ChecklistProvisioner interface {
	Provision(ctx context.Context, clientID id.ClientID, ownerID id.UserID) (*checklistmodels.Checklist, error)
	DeleteByClient(ctx context.Context, clientID id.ClientID) error
}

// PaymentCleaner removes a client's invoices when the client is deleted.
type PaymentCleaner interface {
	DeleteByClient(ctx context.Context, clientID id.ClientID) error
}

// TaskCleaner removes a client's tasks when the client is deleted.
type TaskCleaner interface {
	DeleteByClient(ctx context.Context, clientID id.ClientID) error
}

// Service is the client registry. Creating a client provisions its checklist
// in the same transaction; deleting one cascades to its checklist, payments
// and tasks.
type Service struct {
	store      Store
	tx         TxRunner
	checklists ChecklistProvisioner
	payments   PaymentCleaner
	tasks      TaskCleaner
	logger     *slog.Logger
	audit      *audit.Emitter
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

func New(store Store, tx TxRunner, checklists ChecklistProvisioner, payments PaymentCleaner, tasks TaskCleaner, opts ...Option) *Service {
	s := &Service{
		store:      store,
		tx:         tx,
		checklists: checklists,
		payments:   payments,
		tasks:      tasks,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a client and provisions its checklist as one unit. If
// provisioning fails the client does not survive.
func (s *Service) Create(ctx context.Context, ownerID id.UserID, profile models.Profile) (*models.Client, *checklistmodels.Checklist, error) {
	client, err := models.NewClient(id.ClientID(uuid.New()), ownerID, profile, requestcontext.Now(ctx))
	if err != nil {
		return nil, nil, err
	}

	var checklist *checklistmodels.Checklist
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.Create(txCtx, client); err != nil {
			return wrapClientErr(err, "create client")
		}
		provisioned, err := s.checklists.Provision(txCtx, client.ID, ownerID)
		if err != nil {
			return err
		}
		checklist = provisioned
		return nil
	})
	if err != nil {
		s.compensate(ctx, client.ID, err)
		return nil, nil, wrapClientErr(err, "create client")
	}

	s.audit.Record(ctx, audit.ActionClientCreated, ownerID, client.ID.String(),
		"client_type", string(client.Type),
	)
	return client, checklist, nil
}

// compensate removes a client whose creation failed part-way. After a real
// rollback the client is already gone and this is a no-op.
func (s *Service) compensate(ctx context.Context, clientID id.ClientID, cause error) {
	err := s.store.Delete(context.WithoutCancel(ctx), clientID)
	if err == nil {
		s.logger.WarnContext(ctx, "removed client after failed provisioning",
			"client_id", clientID.String(),
			"error", cause,
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.ErrorContext(ctx, "failed to remove client after failed provisioning",
			"client_id", clientID.String(),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func (s *Service) Get(ctx context.Context, ownerID id.UserID, clientID id.ClientID) (*models.Client, error) {
	client, err := s.store.FindByID(ctx, clientID)
	if err != nil {
		return nil, wrapClientErr(err, "load client")
	}
	if client.OwnerID != ownerID {
		return nil, errClientNotFound()
	}
	return client, nil
}

// List returns the owner's clients in creation order.
func (s *Service) List(ctx context.Context, ownerID id.UserID) ([]*models.Client, error) {
	clients, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, wrapClientErr(err, "list clients")
	}
	return clients, nil
}

// Search returns the owner's clients whose name, promoter name or location
// contains query, ignoring case. An empty query matches every client.
func (s *Service) Search(ctx context.Context, ownerID id.UserID, query string) ([]*models.Client, error) {
	clients, err := s.store.Search(ctx, ownerID, strings.TrimSpace(query))
	if err != nil {
		return nil, wrapClientErr(err, "search clients")
	}
	return clients, nil
}

// Exists reports whether ownerID has a client with clientID.
func (s *Service) Exists(ctx context.Context, ownerID id.UserID, clientID id.ClientID) (bool, error) {
	return NewLookup(s.store).Exists(ctx, ownerID, clientID)
}

// Lookup answers existence checks straight from the store, so the ledger can
// be built before the registry that cascades into it.
type Lookup struct {
	store Store
}

func NewLookup(store Store) *Lookup {
	return &Lookup{store: store}
}

func (l *Lookup) Exists(ctx context.Context, ownerID id.UserID, clientID id.ClientID) (bool, error) {
	client, err := l.store.FindByID(ctx, clientID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return client.OwnerID == ownerID, nil
}

// Delete removes the client with its checklist, every payment record and
// every task.
func (s *Service) Delete(ctx context.Context, ownerID id.UserID, clientID id.ClientID) error {
	if _, err := s.Get(ctx, ownerID, clientID); err != nil {
		return err
	}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checklists.DeleteByClient(txCtx, clientID); err != nil {
			return err
		}
		if err := s.payments.DeleteByClient(txCtx, clientID); err != nil {
			return err
		}
		if err := s.tasks.DeleteByClient(txCtx, clientID); err != nil {
			return err
		}
		if err := s.store.Delete(txCtx, clientID); err != nil {
			return wrapClientErr(err, "delete client")
		}
		return nil
	})
	if err != nil {
		return wrapClientErr(err, "delete client")
	}

	s.audit.Record(ctx, audit.ActionClientDeleted, ownerID, clientID.String())
	return nil
}

func errClientNotFound() error {
	return dErrors.New(dErrors.CodeNotFound, "Client not found")
}

func wrapClientErr(err error, action string) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return errClientNotFound()
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "client already exists")
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "client operation timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
	}
}
