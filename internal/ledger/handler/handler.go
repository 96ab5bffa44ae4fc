package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"reratrack/internal/ledger/models"
	"reratrack/internal/ledger/service"
	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
	"reratrack/pkg/platform/httputil"
	"reratrack/pkg/requestcontext"
)

// IdempotencyHeader names the optional header that deduplicates receipts.
const IdempotencyHeader = "Idempotency-Key"

// Service defines the ledger operations exposed over HTTP.
type Service interface {
	CreateInvoice(ctx context.Context, ownerID id.UserID, cmd service.CreateInvoiceCommand) (*models.PaymentRecord, error)
	RecordPayment(ctx context.Context, ownerID id.UserID, paymentID id.PaymentID, cmd service.RecordPaymentCommand) (*models.PaymentRecord, error)
	DeletePayment(ctx context.Context, ownerID id.UserID, paymentID id.PaymentID) error
	Get(ctx context.Context, ownerID id.UserID, paymentID id.PaymentID) (*models.PaymentRecord, error)
	ListByClient(ctx context.Context, ownerID id.UserID, clientID id.ClientID) ([]*models.PaymentRecord, error)
	ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.PaymentRecord, error)
}

// Handler serves the /payments routes.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the ledger routes. Callers mount it behind RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Post("/payments", h.HandleCreate)
	r.Get("/payments", h.HandleListByOwner)
	r.Get("/payments/{paymentID}", h.HandleGet)
	r.Put("/payments/{paymentID}/record", h.HandleRecord)
	r.Delete("/payments/{paymentID}", h.HandleDelete)
	r.Get("/clients/{clientID}/payments", h.HandleListByClient)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ok := httputil.RequireOwner(ctx, w, h.logger)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateInvoiceRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	record, err := h.service.CreateInvoice(ctx, ownerID, service.CreateInvoiceCommand{
		ClientID:    req.clientID,
		Amount:      *req.Amount,
		Description: req.Description,
		DueDate:     req.dueDate,
	})
	if err != nil {
		h.writeFailure(ctx, w, err, "failed to create invoice")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toPaymentResponse(record))
}

func (h *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, paymentID, ok := h.paymentScope(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RecordPaymentRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	record, err := h.service.RecordPayment(ctx, ownerID, paymentID, service.RecordPaymentCommand{
		Amount:         *req.Amount,
		Date:           req.date,
		Notes:          req.Notes,
		IdempotencyKey: r.Header.Get(IdempotencyHeader),
	})
	if err != nil {
		h.writeFailure(ctx, w, err, "failed to record payment", "payment_id", paymentID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPaymentResponse(record))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, paymentID, ok := h.paymentScope(w, r)
	if !ok {
		return
	}

	if err := h.service.DeletePayment(ctx, ownerID, paymentID); err != nil {
		h.writeFailure(ctx, w, err, "failed to delete payment", "payment_id", paymentID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &DeleteResponse{Message: "Payment deleted successfully"})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, paymentID, ok := h.paymentScope(w, r)
	if !ok {
		return
	}

	record, err := h.service.Get(ctx, ownerID, paymentID)
	if err != nil {
		h.writeFailure(ctx, w, err, "failed to get payment", "payment_id", paymentID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPaymentResponse(record))
}

func (h *Handler) HandleListByOwner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ok := httputil.RequireOwner(ctx, w, h.logger)
	if !ok {
		return
	}

	records, err := h.service.ListByOwner(ctx, ownerID)
	if err != nil {
		h.writeFailure(ctx, w, err, "failed to list payments")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPaymentResponses(records))
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

	records, err := h.service.ListByClient(ctx, ownerID, clientID)
	if err != nil {
		h.writeFailure(ctx, w, err, "failed to list client payments", "client_id", clientID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPaymentResponses(records))
}

func (h *Handler) paymentScope(w http.ResponseWriter, r *http.Request) (id.UserID, id.PaymentID, bool) {
	ownerID, ok := httputil.RequireOwner(r.Context(), w, h.logger)
	if !ok {
		return id.UserID{}, id.PaymentID{}, false
	}
	paymentID, err := id.ParsePaymentID(chi.URLParam(r, "paymentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.UserID{}, id.PaymentID{}, false
	}
	return ownerID, paymentID, true
}

func (h *Handler) writeFailure(ctx context.Context, w http.ResponseWriter, err error, msg string, args ...any) {
	level := slog.LevelWarn
	if code := dErrors.CodeOf(err); code == dErrors.CodeInternal || code == dErrors.CodeTimeout {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg, append([]any{
		"request_id", requestcontext.RequestID(ctx),
		"user_id", requestcontext.UserID(ctx).String(),
		"error", err,
	}, args...)...)
	httputil.WriteError(w, err)
}
