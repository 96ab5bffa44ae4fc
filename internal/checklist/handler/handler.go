package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"reratrack/internal/checklist/models"
	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
	"reratrack/pkg/platform/httputil"
	"reratrack/pkg/requestcontext"
)

// Service defines the checklist operations exposed over HTTP.
type Service interface {
	GetByClient(ctx context.Context, ownerID id.UserID, clientID id.ClientID) (*models.Checklist, error)
	SetStatus(ctx context.Context, ownerID id.UserID, clientID id.ClientID, documentName, status string) (*models.Checklist, error)
	AddItem(ctx context.Context, ownerID id.UserID, clientID id.ClientID, documentName string) (*models.Checklist, error)
	ListPending(ctx context.Context, ownerID id.UserID, clientIDs []id.ClientID) (map[id.ClientID][]string, error)
}

// Handler serves the /documents routes.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the checklist routes. Callers mount it behind RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Get("/documents/{clientID}", h.HandleGet)
	r.Put("/documents/{clientID}", h.HandleSetStatus)
	r.Post("/documents/{clientID}/add", h.HandleAddItem)
	r.Get("/documents/{clientID}/pending", h.HandlePending)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, clientID, ok := h.scope(w, r)
	if !ok {
		return
	}

	checklist, err := h.service.GetByClient(ctx, ownerID, clientID)
	if err != nil {
		h.writeFailure(ctx, w, err, "failed to get checklist", clientID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toChecklistResponse(checklist))
}

func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, clientID, ok := h.scope(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SetStatusRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	checklist, err := h.service.SetStatus(ctx, ownerID, clientID, req.DocumentName, req.Status)
	if err != nil {
		h.writeFailure(ctx, w, err, "failed to update document status", clientID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toChecklistResponse(checklist))
}

func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, clientID, ok := h.scope(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddItemRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	checklist, err := h.service.AddItem(ctx, ownerID, clientID, req.DocumentName)
	if err != nil {
		h.writeFailure(ctx, w, err, "failed to add document", clientID)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toChecklistResponse(checklist))
}

func (h *Handler) HandlePending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, clientID, ok := h.scope(w, r)
	if !ok {
		return
	}

	pending, err := h.service.ListPending(ctx, ownerID, []id.ClientID{clientID})
	if err != nil {
		h.writeFailure(ctx, w, err, "failed to list pending documents", clientID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &PendingResponse{
		ClientID: clientID,
		Pending:  pending[clientID],
	})
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (id.UserID, id.ClientID, bool) {
	ownerID, ok := httputil.RequireOwner(r.Context(), w, h.logger)
	if !ok {
		return id.UserID{}, id.ClientID{}, false
	}
	clientID, err := id.ParseClientID(chi.URLParam(r, "clientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.UserID{}, id.ClientID{}, false
	}
	return ownerID, clientID, true
}

func (h *Handler) writeFailure(ctx context.Context, w http.ResponseWriter, err error, msg string, clientID id.ClientID) {
	level := slog.LevelWarn
	if dErrors.CodeOf(err) == dErrors.CodeInternal || dErrors.CodeOf(err) == dErrors.CodeIntegrity {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"user_id", requestcontext.UserID(ctx).String(),
		"client_id", clientID.String(),
		"error", err,
	)
	httputil.WriteError(w, err)
}
