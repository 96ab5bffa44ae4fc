package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ClientDirectory,PendingSource,PaymentSource

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	clientmodels "reratrack/internal/client/models"
	"reratrack/internal/export/service/mocks"
	ledgermodels "reratrack/internal/ledger/models"
	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
)

type ExportServiceSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	clients  *mocks.MockClientDirectory
	pending  *mocks.MockPendingSource
	payments *mocks.MockPaymentSource
	service  *Service
	ctx      context.Context
	owner    id.UserID
}

func TestExportServiceSuite(t *testing.T) {
	suite.Run(t, new(ExportServiceSuite))
}

func (s *ExportServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.clients = mocks.NewMockClientDirectory(s.ctrl)
	s.pending = mocks.NewMockPendingSource(s.ctrl)
	s.payments = mocks.NewMockPaymentSource(s.ctrl)
	s.service = New(s.clients, s.pending, s.payments)
	s.ctx = context.Background()
	s.owner = id.UserID(uuid.New())
}

func (s *ExportServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ExportServiceSuite) client(name string) *clientmodels.Client {
	return &clientmodels.Client{ID: id.ClientID(uuid.New()), OwnerID: s.owner, Type: clientmodels.TypeDeveloper, Name: name}
}

func (s *ExportServiceSuite) rows(report *Report, sheet string) [][]string {
	f, err := excelize.OpenReader(bytes.NewReader(report.Content))
	s.Require().NoError(err)
	defer f.Close()
	rows, err := f.GetRows(sheet)
	s.Require().NoError(err)
	return rows
}

func (s *ExportServiceSuite) TestPendingDocumentsAcrossClients() {
	skyline := s.client("Skyline Builders")
	done := s.client("Done Estates")
	s.clients.EXPECT().List(s.ctx, s.owner).Return([]*clientmodels.Client{skyline, done}, nil)
	s.pending.EXPECT().ListPending(s.ctx, s.owner, []id.ClientID{skyline.ID, done.ID}).Return(map[id.ClientID][]string{
		skyline.ID: {"PAN Card of the Firm/Company", "Form 3"},
		done.ID:    {},
	}, nil)

	report, err := s.service.PendingDocuments(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Equal("pending_documents.xlsx", report.Filename)
	s.Equal([][]string{
		{"Client", "Document"},
		{"Skyline Builders", "PAN Card of the Firm/Company"},
		{"Skyline Builders", "Form 3"},
	}, s.rows(report, "Pending Documents"))
}

func (s *ExportServiceSuite) TestPendingDocumentsForClientWithNothingPending() {
	c := s.client("Acme & Sons Pvt. Ltd.")
	s.clients.EXPECT().Get(s.ctx, s.owner, c.ID).Return(c, nil)
	s.pending.EXPECT().ListPending(s.ctx, s.owner, []id.ClientID{c.ID}).Return(map[id.ClientID][]string{c.ID: nil}, nil)

	report, err := s.service.PendingDocumentsForClient(s.ctx, s.owner, c.ID)
	s.Require().NoError(err)
	s.Equal("pending_documents_Acme___Sons_Pvt__Ltd_.xlsx", report.Filename)
	rows := s.rows(report, "Pending Documents")
	s.Require().Len(rows, 2)
	s.Equal([]string{"Acme & Sons Pvt. Ltd.", "No pending documents."}, rows[1])
}

func (s *ExportServiceSuite) TestPendingDocumentsForUnknownClient() {
	clientID := id.ClientID(uuid.New())
	s.clients.EXPECT().Get(s.ctx, s.owner, clientID).Return(nil, dErrors.New(dErrors.CodeNotFound, "Client not found"))

	_, err := s.service.PendingDocumentsForClient(s.ctx, s.owner, clientID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ExportServiceSuite) TestPendingDocumentsPropagatesIntegrityFailure() {
	c := s.client("Orphan")
	s.clients.EXPECT().List(s.ctx, s.owner).Return([]*clientmodels.Client{c}, nil)
	s.pending.EXPECT().ListPending(s.ctx, s.owner, gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeIntegrity, "client has no document checklist"))

	_, err := s.service.PendingDocuments(s.ctx, s.owner)
	s.True(dErrors.HasCode(err, dErrors.CodeIntegrity))
}

func (s *ExportServiceSuite) TestPaymentsLedger() {
	c := s.client("Skyline Builders")
	due := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	open := &ledgermodels.PaymentRecord{
		ID:          id.PaymentID(uuid.New()),
		ClientID:    c.ID,
		OwnerID:     s.owner,
		Amount:      decimal.RequireFromString("1000.00"),
		PaidAmount:  decimal.RequireFromString("400.50"),
		Description: "Registration fee",
		DueDate:     &due,
	}
	settled := &ledgermodels.PaymentRecord{
		ID:          id.PaymentID(uuid.New()),
		ClientID:    c.ID,
		OwnerID:     s.owner,
		Amount:      decimal.RequireFromString("250"),
		PaidAmount:  decimal.RequireFromString("250"),
		Description: "Quarterly update",
	}
	s.clients.EXPECT().List(s.ctx, s.owner).Return([]*clientmodels.Client{c}, nil)
	s.payments.EXPECT().ListByOwner(s.ctx, s.owner).Return([]*ledgermodels.PaymentRecord{open, settled}, nil)

	report, err := s.service.Payments(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Equal("payments.xlsx", report.Filename)
	rows := s.rows(report, "Payments")
	s.Require().Len(rows, 3)
	s.Equal([]string{"Client", "Description", "Amount", "Paid", "Balance", "Due Date", "Status"}, rows[0])
	s.Equal([]string{"Skyline Builders", "Registration fee", "1000", "400.5", "599.5", "2026-03-31", "open"}, rows[1])
	s.Equal("settled", rows[2][6])
}

func (s *ExportServiceSuite) TestPaymentsStoreFailure() {
	s.clients.EXPECT().List(s.ctx, s.owner).Return(nil, nil)
	s.payments.EXPECT().ListByOwner(s.ctx, s.owner).Return(nil, errors.New("connection reset"))

	_, err := s.service.Payments(s.ctx, s.owner)
	s.Error(err)
}

func (s *ExportServiceSuite) TestSafeFilename() {
	s.Equal("Skyline_Builders_2", SafeFilename("Skyline Builders-2"))
	s.Equal("abc123", SafeFilename("abc123"))
}
