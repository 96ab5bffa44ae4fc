package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"reratrack/internal/export/service"
	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
	"reratrack/pkg/platform/httputil"
	"reratrack/pkg/requestcontext"
)

type Service interface {
	PendingDocuments(ctx context.Context, ownerID id.UserID) (*service.Report, error)
	PendingDocumentsForClient(ctx context.Context, ownerID id.UserID, clientID id.ClientID) (*service.Report, error)
	Payments(ctx context.Context, ownerID id.UserID) (*service.Report, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/export/pending-documents", h.HandlePendingDocuments)
	r.Get("/export/pending-documents/{clientID}", h.HandlePendingDocumentsForClient)
	r.Get("/export/payments", h.HandlePayments)
}

func (h *Handler) HandlePendingDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ok := httputil.RequireOwner(ctx, w, h.logger)
	if !ok {
		return
	}
	report, err := h.service.PendingDocuments(ctx, ownerID)
	h.respond(ctx, w, report, err)
}

func (h *Handler) HandlePendingDocumentsForClient(w http.ResponseWriter, r *http.Request) {
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
	report, err := h.service.PendingDocumentsForClient(ctx, ownerID, clientID)
	h.respond(ctx, w, report, err)
}

func (h *Handler) HandlePayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ok := httputil.RequireOwner(ctx, w, h.logger)
	if !ok {
		return
	}
	report, err := h.service.Payments(ctx, ownerID)
	h.respond(ctx, w, report, err)
}

func (h *Handler) respond(ctx context.Context, w http.ResponseWriter, report *service.Report, err error) {
	if err != nil {
		level := slog.LevelWarn
		if dErrors.ToHTTPStatus(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		h.logger.Log(ctx, level, "export failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", service.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(report.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(report.Content); err != nil {
		h.logger.WarnContext(ctx, "failed to stream export", "error", err)
	}
}
