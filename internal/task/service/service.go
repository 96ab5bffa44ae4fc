package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"reratrack/internal/audit"
	"reratrack/internal/task/models"
	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
	"reratrack/pkg/platform/sentinel"
	"reratrack/pkg/requestcontext"
)

// Store persists tasks.
type Store interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, taskID id.TaskID) (*models.Task, error)
	ListByClient(ctx context.Context, clientID id.ClientID) ([]*models.Task, error)
	Execute(ctx context.Context, taskID id.TaskID, mutate func(*models.Task) error) (*models.Task, error)
	Delete(ctx context.Context, taskID id.TaskID) error
	DeleteByClient(ctx context.Context, clientID id.ClientID) error
}

// ClientChecker answers whether an owner has a client.
type ClientChecker interface {
	Exists(ctx context.Context, ownerID id.UserID, clientID id.ClientID) (bool, error)
}

// Service keeps the free-text work items recorded against a client.
type Service struct {
	store   Store
	clients ClientChecker
	logger  *slog.Logger
	audit   *audit.Emitter
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

func New(store Store, clients ClientChecker, opts ...Option) *Service {
	s := &Service{
		store:   store,
		clients: clients,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create records a task against one of the owner's clients.
func (s *Service) Create(ctx context.Context, ownerID id.UserID, clientID id.ClientID, details models.Details) (*models.Task, error) {
	task, err := models.NewTask(id.TaskID(uuid.New()), clientID, ownerID, details, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.requireClient(ctx, ownerID, clientID); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, task); err != nil {
		return nil, wrapTaskErr(err, "create task")
	}

	s.audit.Record(ctx, audit.ActionTaskCreated, ownerID, task.ID.String(),
		"client_id", clientID.String(),
	)
	return task, nil
}

// ListByClient returns the client's tasks oldest first.
func (s *Service) ListByClient(ctx context.Context, ownerID id.UserID, clientID id.ClientID) ([]*models.Task, error) {
	if err := s.requireClient(ctx, ownerID, clientID); err != nil {
		return nil, err
	}
	tasks, err := s.store.ListByClient(ctx, clientID)
	if err != nil {
		return nil, wrapTaskErr(err, "list tasks")
	}
	return tasks, nil
}

func (s *Service) Get(ctx context.Context, ownerID id.UserID, taskID id.TaskID) (*models.Task, error) {
	task, err := s.store.FindByID(ctx, taskID)
	if err != nil {
		return nil, wrapTaskErr(err, "load task")
	}
	if task.OwnerID != ownerID {
		return nil, errTaskNotFound()
	}
	return task, nil
}

// Update merges changes into the task. Unknown fields are rejected before
// the store is touched.
func (s *Service) Update(ctx context.Context, ownerID id.UserID, taskID id.TaskID, changes models.Changes) (*models.Task, error) {
	if err := models.ValidateChanges(changes); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	task, err := s.store.Execute(ctx, taskID, func(t *models.Task) error {
		if t.OwnerID != ownerID {
			return errTaskNotFound()
		}
		return t.Apply(changes, now)
	})
	if err != nil {
		return nil, wrapTaskErr(err, "update task")
	}

	s.audit.Record(ctx, audit.ActionTaskUpdated, ownerID, taskID.String(),
		"client_id", task.ClientID.String(),
	)
	return task, nil
}

func (s *Service) Delete(ctx context.Context, ownerID id.UserID, taskID id.TaskID) error {
	task, err := s.Get(ctx, ownerID, taskID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, taskID); err != nil {
		return wrapTaskErr(err, "delete task")
	}

	s.audit.Record(ctx, audit.ActionTaskDeleted, ownerID, taskID.String(),
		"client_id", task.ClientID.String(),
	)
	return nil
}

// DeleteByClient removes a client's tasks as part of client deletion.
func (s *Service) DeleteByClient(ctx context.Context, clientID id.ClientID) error {
	if err := s.store.DeleteByClient(ctx, clientID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete tasks")
	}
	return nil
}

func (s *Service) requireClient(ctx context.Context, ownerID id.UserID, clientID id.ClientID) error {
	exists, err := s.clients.Exists(ctx, ownerID, clientID)
	if err != nil {
		s.logger.ErrorContext(ctx, "client lookup failed",
			"client_id", clientID.String(),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check client")
	}
	if !exists {
		return dErrors.New(dErrors.CodeNotFound, "Client not found")
	}
	return nil
}

func errTaskNotFound() error {
	return dErrors.New(dErrors.CodeNotFound, "Task not found")
}

func wrapTaskErr(err error, action string) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return errTaskNotFound()
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "task already exists")
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "task operation timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
	}
}
