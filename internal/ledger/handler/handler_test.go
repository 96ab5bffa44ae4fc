package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"reratrack/internal/ledger/handler/mocks"
	"reratrack/internal/ledger/models"
	"reratrack/internal/ledger/service"
	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
	"reratrack/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/service_mock.go -package=mocks Service

type LedgerHandlerSuite struct {
	suite.Suite
	service  *mocks.MockService
	router   chi.Router
	ownerID  id.UserID
	clientID id.ClientID
}

func TestLedgerHandlerSuite(t *testing.T) {
	suite.Run(t, new(LedgerHandlerSuite))
}

func (s *LedgerHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.ownerID = id.UserID(uuid.New())
	s.clientID = id.ClientID(uuid.New())

	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *LedgerHandlerSuite) record(amount, paid int64) *models.PaymentRecord {
	p, err := models.NewPaymentRecord(id.PaymentID(uuid.New()), s.clientID, s.ownerID,
		decimal.NewFromInt(amount), "Project registration", nil, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	if paid > 0 {
		p.ApplyPayment(models.Transaction{ID: id.TransactionID(uuid.New()), Amount: decimal.NewFromInt(paid)})
	}
	return p
}

func (s *LedgerHandlerSuite) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	req = testutil.WithOwner(req, s.ownerID)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *LedgerHandlerSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var body map[string]string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func (s *LedgerHandlerSuite) TestCreate() {
	s.Run("creates an invoice", func() {
		created := s.record(10000, 0)
		s.service.EXPECT().CreateInvoice(gomock.Any(), s.ownerID, gomock.Any()).
			DoAndReturn(func(_ any, _ id.UserID, cmd service.CreateInvoiceCommand) (*models.PaymentRecord, error) {
				s.Equal(s.clientID, cmd.ClientID)
				s.True(cmd.Amount.Equal(decimal.NewFromInt(10000)))
				s.Require().NotNil(cmd.DueDate)
				s.Equal("2025-06-30", cmd.DueDate.Format(time.DateOnly))
				return created, nil
			})

		rec := s.do(http.MethodPost, "/payments",
			`{"clientId":"`+s.clientID.String()+`","amount":10000,"description":"Project registration","dueDate":"2025-06-30"}`)

		s.Equal(http.StatusCreated, rec.Code)
		var resp map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal(10000.0, resp["amount"])
		s.Equal(0.0, resp["paidAmount"])
		s.Equal(10000.0, resp["balance"])
		s.Equal("open", resp["status"])
		s.Equal([]any{}, resp["transactions"])
	})

	for name, body := range map[string]string{
		"missing client":      `{"amount":100,"description":"fee"}`,
		"missing amount":      `{"clientId":"` + uuid.NewString() + `","description":"fee"}`,
		"missing description": `{"clientId":"` + uuid.NewString() + `","amount":100}`,
		"bad due date":        `{"clientId":"` + uuid.NewString() + `","amount":100,"description":"fee","dueDate":"30/06/2025"}`,
	} {
		s.Run(name, func() {
			rec := s.do(http.MethodPost, "/payments", body)
			s.Equal(http.StatusBadRequest, rec.Code)
			s.Equal(string(dErrors.CodeValidation), s.errorCode(rec))
		})
	}
}

func (s *LedgerHandlerSuite) TestRecord() {
	s.Run("records with idempotency key", func() {
		p := s.record(10000, 4000)
		s.service.EXPECT().RecordPayment(gomock.Any(), s.ownerID, p.ID, gomock.Any()).
			DoAndReturn(func(_ any, _ id.UserID, _ id.PaymentID, cmd service.RecordPaymentCommand) (*models.PaymentRecord, error) {
				s.True(cmd.Amount.Equal(decimal.NewFromInt(4000)))
				s.Equal("retry-1", cmd.IdempotencyKey)
				s.Equal("2025-05-02", cmd.Date.Format(time.DateOnly))
				s.Equal("NEFT", cmd.Notes)
				return p, nil
			})

		rec := s.do(http.MethodPut, "/payments/"+p.ID.String()+"/record",
			`{"amount":4000,"date":"2025-05-02","notes":"NEFT"}`, IdempotencyHeader, "retry-1")

		s.Equal(http.StatusOK, rec.Code)
		var resp PaymentResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal("4000.00", resp.PaidAmount.String())
		s.Equal("6000.00", resp.Balance.String())
		s.Len(resp.Transactions, 1)
	})

	s.Run("exceeding the balance is 400 invalid_amount", func() {
		paymentID := id.PaymentID(uuid.New())
		s.service.EXPECT().RecordPayment(gomock.Any(), s.ownerID, paymentID, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInvalidAmount, "Amount exceeds remaining balance"))

		rec := s.do(http.MethodPut, "/payments/"+paymentID.String()+"/record", `{"amount":7000}`)

		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(dErrors.CodeInvalidAmount), s.errorCode(rec))
		s.Contains(rec.Body.String(), "Amount exceeds remaining balance")
	})

	s.Run("replay of an unfinished request is 409", func() {
		paymentID := id.PaymentID(uuid.New())
		s.service.EXPECT().RecordPayment(gomock.Any(), s.ownerID, paymentID, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "request in progress"))

		rec := s.do(http.MethodPut, "/payments/"+paymentID.String()+"/record", `{"amount":10}`, IdempotencyHeader, "retry-2")

		s.Equal(http.StatusConflict, rec.Code)
		s.Contains(rec.Body.String(), "request in progress")
	})

	s.Run("missing amount is 400", func() {
		rec := s.do(http.MethodPut, "/payments/"+uuid.NewString()+"/record", `{"notes":"x"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("bad payment id is 400", func() {
		rec := s.do(http.MethodPut, "/payments/abc/record", `{"amount":1}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *LedgerHandlerSuite) TestDelete() {
	s.Run("settled payment deleted", func() {
		paymentID := id.PaymentID(uuid.New())
		s.service.EXPECT().DeletePayment(gomock.Any(), s.ownerID, paymentID).Return(nil)

		rec := s.do(http.MethodDelete, "/payments/"+paymentID.String(), "")

		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "Payment deleted successfully")
	})

	s.Run("open payment is 409", func() {
		paymentID := id.PaymentID(uuid.New())
		s.service.EXPECT().DeletePayment(gomock.Any(), s.ownerID, paymentID).
			Return(dErrors.New(dErrors.CodeConflict, "Cannot delete payment unless it is fully received"))

		rec := s.do(http.MethodDelete, "/payments/"+paymentID.String(), "")

		s.Equal(http.StatusConflict, rec.Code)
	})
}

func (s *LedgerHandlerSuite) TestReads() {
	s.Run("get", func() {
		p := s.record(500, 500)
		s.service.EXPECT().Get(gomock.Any(), s.ownerID, p.ID).Return(p, nil)

		rec := s.do(http.MethodGet, "/payments/"+p.ID.String(), "")

		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"status":"settled"`)
	})

	s.Run("get missing is 404", func() {
		paymentID := id.PaymentID(uuid.New())
		s.service.EXPECT().Get(gomock.Any(), s.ownerID, paymentID).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "Payment not found"))

		rec := s.do(http.MethodGet, "/payments/"+paymentID.String(), "")

		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("list by owner", func() {
		s.service.EXPECT().ListByOwner(gomock.Any(), s.ownerID).
			Return([]*models.PaymentRecord{s.record(100, 0), s.record(200, 0)}, nil)

		rec := s.do(http.MethodGet, "/payments", "")

		s.Equal(http.StatusOK, rec.Code)
		var resp []PaymentResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Len(resp, 2)
	})

	s.Run("a client id on the payment route is read as a payment id", func() {
		s.service.EXPECT().Get(gomock.Any(), s.ownerID, id.PaymentID(s.clientID)).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "Payment not found"))

		rec := s.do(http.MethodGet, "/payments/"+s.clientID.String(), "")

		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("list by client empty is an empty array", func() {
		s.service.EXPECT().ListByClient(gomock.Any(), s.ownerID, s.clientID).
			Return([]*models.PaymentRecord{}, nil)

		rec := s.do(http.MethodGet, "/clients/"+s.clientID.String()+"/payments", "")

		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`[]`, rec.Body.String())
	})
}
