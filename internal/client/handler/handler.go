package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	checklistmodels "reratrack/internal/checklist/models"
	"reratrack/internal/client/models"
	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
	"reratrack/pkg/platform/httputil"
	"reratrack/pkg/requestcontext"
)

// Service defines the client registry operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, ownerID id.UserID, profile models.Profile) (*models.Client, *checklistmodels.Checklist, error)
	Get(ctx context.Context, ownerID id.UserID, clientID id.ClientID) (*models.Client, error)
	List(ctx context.Context, ownerID id.UserID) ([]*models.Client, error)
	Search(ctx context.Context, ownerID id.UserID, query string) ([]*models.Client, error)
	Delete(ctx context.Context, ownerID id.UserID, clientID id.ClientID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the client routes. Callers mount it behind RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Post("/clients", h.HandleCreate)
	r.Get("/clients", h.HandleList)
	r.Get("/clients/{clientID}", h.HandleGet)
	r.Delete("/clients/{clientID}", h.HandleDelete)
	r.Get("/search/clients", h.HandleSearch)
}

type CreateClientResponse struct {
	*models.Client
	Documents checklistmodels.Items `json:"documents"`
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
	req, ok := httputil.DecodeAndPrepare[CreateClientRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	client, checklist, err := h.service.Create(ctx, ownerID, req.profile())
	if err != nil {
		h.writeFailure(ctx, w, err, "failed to create client")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, &CreateClientResponse{
		Client:    client,
		Documents: checklist.Items,
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ok := httputil.RequireOwner(ctx, w, h.logger)
	if !ok {
		return
	}
	clients, err := h.service.List(ctx, ownerID)
	if err != nil {
		h.writeFailure(ctx, w, err, "failed to list clients")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, clients)
}

// HandleSearch serves GET /search/clients?q=. A missing q lists every client.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ok := httputil.RequireOwner(ctx, w, h.logger)
	if !ok {
		return
	}
	clients, err := h.service.Search(ctx, ownerID, r.URL.Query().Get("q"))
	if err != nil {
		h.writeFailure(ctx, w, err, "failed to search clients")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, clients)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, clientID, ok := h.scope(w, r)
	if !ok {
		return
	}
	client, err := h.service.Get(ctx, ownerID, clientID)
	if err != nil {
		h.writeFailure(ctx, w, err, "failed to get client")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, client)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, clientID, ok := h.scope(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(ctx, ownerID, clientID); err != nil {
		h.writeFailure(ctx, w, err, "failed to delete client")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &DeleteResponse{Message: "Client deleted successfully"})
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
