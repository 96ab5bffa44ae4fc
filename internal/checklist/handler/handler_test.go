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
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"reratrack/internal/checklist/handler/mocks"
	"reratrack/internal/checklist/models"
	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
	"reratrack/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/service_mock.go -package=mocks Service

type ChecklistHandlerSuite struct {
	suite.Suite
	service  *mocks.MockService
	router   chi.Router
	ownerID  id.UserID
	clientID id.ClientID
}

func TestChecklistHandlerSuite(t *testing.T) {
	suite.Run(t, new(ChecklistHandlerSuite))
}

func (s *ChecklistHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.ownerID = id.UserID(uuid.New())
	s.clientID = id.ClientID(uuid.New())

	h := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *ChecklistHandlerSuite) checklist() *models.Checklist {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	c, err := models.NewChecklist(id.ChecklistID(uuid.New()), s.clientID, s.ownerID, models.DefaultTemplate(), now)
	s.Require().NoError(err)
	return c
}

func (s *ChecklistHandlerSuite) do(method, path, body string, authenticated bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req = testutil.WithOwner(req, s.ownerID)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *ChecklistHandlerSuite) decodeError(rec *httptest.ResponseRecorder) string {
	var body map[string]string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func (s *ChecklistHandlerSuite) TestGet() {
	s.Run("returns documents in checklist order", func() {
		s.service.EXPECT().GetByClient(gomock.Any(), s.ownerID, s.clientID).Return(s.checklist(), nil)

		rec := s.do(http.MethodGet, "/documents/"+s.clientID.String(), "", true)

		s.Equal(http.StatusOK, rec.Code)
		body := rec.Body.String()
		s.Less(strings.Index(body, `"PAN Card"`), strings.Index(body, `"Amenities Details"`))
		s.Contains(body, `"clientId":"`+s.clientID.String()+`"`)
	})

	s.Run("unknown client is 404", func() {
		s.service.EXPECT().GetByClient(gomock.Any(), s.ownerID, s.clientID).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "documents not found"))

		rec := s.do(http.MethodGet, "/documents/"+s.clientID.String(), "", true)

		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal(string(dErrors.CodeNotFound), s.decodeError(rec))
	})

	s.Run("malformed client id is 400", func() {
		rec := s.do(http.MethodGet, "/documents/not-a-uuid", "", true)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("missing owner is 500", func() {
		rec := s.do(http.MethodGet, "/documents/"+s.clientID.String(), "", false)
		s.Equal(http.StatusInternalServerError, rec.Code)
	})
}

func (s *ChecklistHandlerSuite) TestSetStatus() {
	s.Run("updates status", func() {
		updated := s.checklist()
		updated.ApplyStatus("PAN Card", models.StatusReceived, time.Now())
		s.service.EXPECT().SetStatus(gomock.Any(), s.ownerID, s.clientID, "PAN Card", "received").Return(updated, nil)

		rec := s.do(http.MethodPut, "/documents/"+s.clientID.String(), `{"documentName":" PAN Card ","status":"received"}`, true)

		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"PAN Card":"received"`)
	})

	s.Run("missing fields rejected before the service", func() {
		rec := s.do(http.MethodPut, "/documents/"+s.clientID.String(), `{"documentName":"PAN Card"}`, true)

		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(dErrors.CodeValidation), s.decodeError(rec))
	})

	s.Run("invalid status from service is 400", func() {
		s.service.EXPECT().SetStatus(gomock.Any(), s.ownerID, s.clientID, "PAN Card", "lost").
			Return(nil, dErrors.New(dErrors.CodeValidation, "status must be 'received' or 'not-received'"))

		rec := s.do(http.MethodPut, "/documents/"+s.clientID.String(), `{"documentName":"PAN Card","status":"lost"}`, true)

		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *ChecklistHandlerSuite) TestAddItem() {
	s.Run("adds a document", func() {
		updated := s.checklist()
		updated.ApplyAddItem("Fire NOC", time.Now())
		s.service.EXPECT().AddItem(gomock.Any(), s.ownerID, s.clientID, "Fire NOC").Return(updated, nil)

		rec := s.do(http.MethodPost, "/documents/"+s.clientID.String()+"/add", `{"documentName":"Fire NOC"}`, true)

		s.Equal(http.StatusCreated, rec.Code)
		s.Contains(rec.Body.String(), `"Fire NOC":"not-received"`)
	})

	s.Run("duplicate is 409", func() {
		s.service.EXPECT().AddItem(gomock.Any(), s.ownerID, s.clientID, "PAN Card").
			Return(nil, dErrors.New(dErrors.CodeConflict, "document already exists"))

		rec := s.do(http.MethodPost, "/documents/"+s.clientID.String()+"/add", `{"documentName":"PAN Card"}`, true)

		s.Equal(http.StatusConflict, rec.Code)
		s.Equal(string(dErrors.CodeConflict), s.decodeError(rec))
	})

	s.Run("empty name is 400", func() {
		rec := s.do(http.MethodPost, "/documents/"+s.clientID.String()+"/add", `{"documentName":"   "}`, true)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *ChecklistHandlerSuite) TestPending() {
	s.Run("lists pending documents", func() {
		s.service.EXPECT().ListPending(gomock.Any(), s.ownerID, []id.ClientID{s.clientID}).
			Return(map[id.ClientID][]string{s.clientID: {"PAN Card", "Form 3"}}, nil)

		rec := s.do(http.MethodGet, "/documents/"+s.clientID.String()+"/pending", "", true)

		s.Equal(http.StatusOK, rec.Code)
		var resp PendingResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal([]string{"PAN Card", "Form 3"}, resp.Pending)
	})

	s.Run("nothing pending encodes an empty array", func() {
		s.service.EXPECT().ListPending(gomock.Any(), s.ownerID, []id.ClientID{s.clientID}).
			Return(map[id.ClientID][]string{s.clientID: {}}, nil)

		rec := s.do(http.MethodGet, "/documents/"+s.clientID.String()+"/pending", "", true)

		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"pendingDocuments":[]`)
	})

	s.Run("integrity failure hides description", func() {
		s.service.EXPECT().ListPending(gomock.Any(), s.ownerID, []id.ClientID{s.clientID}).
			Return(nil, dErrors.New(dErrors.CodeIntegrity, "client has no document checklist"))

		rec := s.do(http.MethodGet, "/documents/"+s.clientID.String()+"/pending", "", true)

		s.Equal(http.StatusInternalServerError, rec.Code)
		s.NotContains(rec.Body.String(), "error_description")
	})
}
