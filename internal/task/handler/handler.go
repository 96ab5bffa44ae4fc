package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"reratrack/internal/task/models"
	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
	"reratrack/pkg/platform/httputil"
	"reratrack/pkg/requestcontext"
)

// Service defines the task operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, ownerID id.UserID, clientID id.ClientID, details models.Details) (*models.Task, error)
	ListByClient(ctx context.Context, ownerID id.UserID, clientID id.ClientID) ([]*models.Task, error)
	Update(ctx context.Context, ownerID id.UserID, taskID id.TaskID, changes models.Changes) (*models.Task, error)
	Delete(ctx context.Context, ownerID id.UserID, taskID id.TaskID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the task routes. Callers mount it behind RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Post("/tasks", h.HandleCreate)
	r.Put("/tasks/{taskID}", h.HandleUpdate)
	r.Delete("/tasks/{taskID}", h.HandleDelete)
	r.Get("/clients/{clientID}/tasks", h.HandleListByClient)
}

type DeleteResponse struct {
	Message string `json:"message"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ok := httputil.RequireOwner(ctx, w, h.logger)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateTaskRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	task, err := h.service.Create(ctx, ownerID, req.clientID, req.Details)
	if err != nil {
		h.writeFailure(ctx, w, err, "failed to create task")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, task)
}

func (h *Handler) HandleListByClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ok := httputil.RequireOwner(ctx, w, h.logger)
	if !ok {
		return
	}
	clientID, err := id.ParseClientID(chi.URLParam(r, "clientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	tasks, err := h.service.ListByClient(ctx, ownerID, clientID)
	if err != nil {
		h.writeFailure(ctx, w, err, "failed to list tasks")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tasks)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, taskID, ok := h.scope(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateTaskRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	task, err := h.service.Update(ctx, ownerID, taskID, models.Changes(*req))
	if err != nil {
		h.writeFailure(ctx, w, err, "failed to update task")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, task)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, taskID, ok := h.scope(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(ctx, ownerID, taskID); err != nil {
		h.writeFailure(ctx, w, err, "failed to delete task")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &DeleteResponse{Message: "Task deleted successfully"})
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (id.UserID, id.TaskID, bool) {
	ownerID, ok := httputil.RequireOwner(r.Context(), w, h.logger)
	if !ok {
		return id.UserID{}, id.TaskID{}, false
	}
	taskID, err := id.ParseTaskID(chi.URLParam(r, "taskID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.UserID{}, id.TaskID{}, false
	}
	return ownerID, taskID, true
}

func (h *Handler) writeFailure(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	if dErrors.ToHTTPStatus(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"user_id", requestcontext.UserID(ctx).String(),
			"error", err,
		)
	} else {
		h.logger.WarnContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
