// Package service renders owner data as XLSX workbooks for download.
package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/xuri/excelize/v2"

	clientmodels "reratrack/internal/client/models"
	ledgermodels "reratrack/internal/ledger/models"
	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
	"reratrack/pkg/requestcontext"
)

// ContentType is the MIME type of every workbook this package produces.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const noPendingDocuments = "No pending documents."

type ClientDirectory interface {
	List(ctx context.Context, ownerID id.UserID) ([]*clientmodels.Client, error)
	Get(ctx context.Context, ownerID id.UserID, clientID id.ClientID) (*clientmodels.Client, error)
}

type PendingSource interface {
	ListPending(ctx context.Context, ownerID id.UserID, clientIDs []id.ClientID) (map[id.ClientID][]string, error)
}

type PaymentSource interface {
	ListByOwner(ctx context.Context, ownerID id.UserID) ([]*ledgermodels.PaymentRecord, error)
}

// Report is a rendered workbook ready to be streamed.
type Report struct {
	Filename string
	Content  []byte
}

type Service struct {
	clients  ClientDirectory
	pending  PendingSource
	payments PaymentSource
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(clients ClientDirectory, pending PendingSource, payments PaymentSource, opts ...Option) *Service {
	s := &Service{
		clients:  clients,
		pending:  pending,
		payments: payments,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type column[T any] struct {
	Header string
	Value  func(T) any
}

type pendingRow struct {
	Client   string
	Document string
}

var pendingColumns = []column[pendingRow]{
	{Header: "Client", Value: func(r pendingRow) any { return r.Client }},
	{Header: "Document", Value: func(r pendingRow) any { return r.Document }},
}

type paymentRow struct {
	Client string
	Record *ledgermodels.PaymentRecord
}

var paymentColumns = []column[paymentRow]{
	{Header: "Client", Value: func(r paymentRow) any { return r.Client }},
	{Header: "Description", Value: func(r paymentRow) any { return r.Record.Description }},
	{Header: "Amount", Value: func(r paymentRow) any { return r.Record.Amount.InexactFloat64() }},
	{Header: "Paid", Value: func(r paymentRow) any { return r.Record.PaidAmount.InexactFloat64() }},
	{Header: "Balance", Value: func(r paymentRow) any { return r.Record.Balance().InexactFloat64() }},
	{Header: "Due Date", Value: func(r paymentRow) any {
		if r.Record.DueDate == nil {
			return ""
		}
		return r.Record.DueDate.Format(time.DateOnly)
	}},
	{Header: "Status", Value: func(r paymentRow) any { return string(r.Record.Status()) }},
}

// PendingDocuments lists every not-received document across the owner's
// clients. Clients with nothing pending are omitted.
func (s *Service) PendingDocuments(ctx context.Context, ownerID id.UserID) (*Report, error) {
	clients, err := s.clients.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	clientIDs := make([]id.ClientID, 0, len(clients))
	for _, c := range clients {
		clientIDs = append(clientIDs, c.ID)
	}
	pending, err := s.pending.ListPending(ctx, ownerID, clientIDs)
	if err != nil {
		return nil, err
	}

	var rows []pendingRow
	for _, c := range clients {
		for _, doc := range pending[c.ID] {
			rows = append(rows, pendingRow{Client: c.Name, Document: doc})
		}
	}
	content, err := render("Pending Documents", ownerID, pendingColumns, rows)
	if err != nil {
		return nil, s.renderFailed(ctx, err)
	}
	return &Report{Filename: "pending_documents.xlsx", Content: content}, nil
}

// PendingDocumentsForClient renders one client's pending documents. An empty
// list still yields a workbook with a single placeholder row.
func (s *Service) PendingDocumentsForClient(ctx context.Context, ownerID id.UserID, clientID id.ClientID) (*Report, error) {
	client, err := s.clients.Get(ctx, ownerID, clientID)
	if err != nil {
		return nil, err
	}
	pending, err := s.pending.ListPending(ctx, ownerID, []id.ClientID{clientID})
	if err != nil {
		return nil, err
	}

	docs := pending[clientID]
	rows := make([]pendingRow, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, pendingRow{Client: client.Name, Document: doc})
	}
	if len(rows) == 0 {
		rows = append(rows, pendingRow{Client: client.Name, Document: noPendingDocuments})
	}
	content, err := render("Pending Documents", ownerID, pendingColumns, rows)
	if err != nil {
		return nil, s.renderFailed(ctx, err)
	}
	return &Report{Filename: "pending_documents_" + SafeFilename(client.Name) + ".xlsx", Content: content}, nil
}

// Payments renders the owner's ledger, one row per payment record.
func (s *Service) Payments(ctx context.Context, ownerID id.UserID) (*Report, error) {
	clients, err := s.clients.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	names := make(map[id.ClientID]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}
	records, err := s.payments.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	rows := make([]paymentRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, paymentRow{Client: names[r.ClientID], Record: r})
	}
	content, err := render("Payments", ownerID, paymentColumns, rows)
	if err != nil {
		return nil, s.renderFailed(ctx, err)
	}
	return &Report{Filename: "payments.xlsx", Content: content}, nil
}

func (s *Service) renderFailed(ctx context.Context, err error) error {
	s.logger.ErrorContext(ctx, "failed to render workbook",
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to render export")
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SafeFilename replaces every non-alphanumeric character with an underscore.
func SafeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

func render[T any](sheet string, ownerID id.UserID, cols []column[T], rows []T) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}
	_ = f.SetDocProps(&excelize.DocProperties{Creator: "owner_" + ownerID.String()})

	var errs []error
	for i, col := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		errs = append(errs, f.SetCellValue(sheet, cell, col.Header))
	}
	for r, row := range rows {
		for i, col := range cols {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return nil, err
			}
			errs = append(errs, f.SetCellValue(sheet, cell, col.Value(row)))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
