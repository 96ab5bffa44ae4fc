package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checklistservice "reratrack/internal/checklist/service"
	checkliststore "reratrack/internal/checklist/store"
	"reratrack/internal/client/service"
	"reratrack/internal/client/store"
	ledgerservice "reratrack/internal/ledger/service"
	ledgerstore "reratrack/internal/ledger/store"
	taskservice "reratrack/internal/task/service"
	taskstore "reratrack/internal/task/store"
	id "reratrack/pkg/domain"
	"reratrack/pkg/testutil"
)

func newClientRouter(t *testing.T) http.Handler {
	t.Helper()
	clients := store.NewInMemory()
	lookup := service.NewLookup(clients)
	checklists := checklistservice.New(checkliststore.NewInMemory(), lookup)
	ledger := ledgerservice.New(ledgerstore.NewInMemory(), lookup)
	tasks := taskservice.New(taskstore.NewInMemory(), lookup)
	svc := service.New(clients, service.NewInMemoryTx(0), checklists, ledger, tasks)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return r
}

type createdClient struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Type      string            `json:"type"`
	Documents map[string]string `json:"documents"`
}

func TestClientLifecycle(t *testing.T) {
	router := newClientRouter(t)
	owner := id.UserID(uuid.New())

	testutil.Given(t, "an owner registering a developer", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/clients", map[string]string{
			"type":       "Developer",
			"name":       "Skyline Builders",
			"mobile":     "9820000000",
			"reraNumber": "P52100012345",
		})
		rr := testutil.DoRequest(router, testutil.WithOwner(req, owner))
		testutil.AssertStatus(t, rr, http.StatusCreated)
		created := testutil.UnmarshalResponse[createdClient](t, rr)
		require.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, "Skyline Builders", created.Name)
		assert.Len(t, created.Documents, 36)
		clientPath := "/clients/" + created.ID.String()

		testutil.When(t, "the owner fetches it", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.WithOwner(testutil.NewRequest(t, http.MethodGet, clientPath), owner))
			testutil.Then(t, "the client is returned", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				testutil.AssertJSONContains(t, rr, "type", "Developer")
			})
		})

		testutil.When(t, "another owner fetches it", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.WithOwner(testutil.NewRequest(t, http.MethodGet, clientPath), id.UserID(uuid.New())))
			testutil.Then(t, "it is not found", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
			})
		})

		testutil.When(t, "the owner lists clients", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.WithOwner(testutil.NewRequest(t, http.MethodGet, "/clients"), owner))
			testutil.Then(t, "exactly one client is listed", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				list := testutil.UnmarshalResponse[[]createdClient](t, rr)
				assert.Len(t, *list, 1)
			})
		})

		testutil.When(t, "the owner deletes it", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.WithOwner(testutil.NewRequest(t, http.MethodDelete, clientPath), owner))
			testutil.AssertStatusOK(t, rr)
			testutil.AssertJSONContains(t, rr, "message", "Client deleted successfully")

			testutil.Then(t, "it can no longer be fetched", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.WithOwner(testutil.NewRequest(t, http.MethodGet, clientPath), owner))
				testutil.AssertStatus(t, rr, http.StatusNotFound)
			})
		})
	})
}

func TestSearchClients(t *testing.T) {
	router := newClientRouter(t)
	owner := id.UserID(uuid.New())
	for _, body := range []map[string]string{
		{"type": "Developer", "name": "Skyline Builders", "mobile": "1", "location": "Pune"},
		{"type": "Agent", "name": "Harbour Realty", "mobile": "2", "promoterName": "R. Skyes"},
		{"type": "Litigation", "name": "Case 14", "mobile": "3", "location": "Thane"},
	} {
		rr := testutil.DoRequest(router, testutil.WithOwner(testutil.NewJSONRequest(t, http.MethodPost, "/clients", body), owner))
		testutil.AssertStatus(t, rr, http.StatusCreated)
	}
	foreign := map[string]string{"type": "Developer", "name": "Skyline Foreign", "mobile": "4"}
	rr := testutil.DoRequest(router, testutil.WithOwner(testutil.NewJSONRequest(t, http.MethodPost, "/clients", foreign), id.UserID(uuid.New())))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"name and promoter ignore case", "?q=SKY", []string{"Skyline Builders", "Harbour Realty"}},
		{"location", "?q=thane", []string{"Case 14"}},
		{"regex characters are literal", "?q=.*", nil},
		{"no match", "?q=Nashik", nil},
		{"missing q lists everything", "", []string{"Skyline Builders", "Harbour Realty", "Case 14"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.WithOwner(testutil.NewRequest(t, http.MethodGet, "/search/clients"+tt.query), owner))
			testutil.AssertStatusOK(t, rr)
			list := testutil.UnmarshalResponse[[]createdClient](t, rr)
			names := make([]string, 0, len(*list))
			for _, c := range *list {
				names = append(names, c.Name)
			}
			assert.ElementsMatch(t, tt.want, names)
		})
	}
}

func TestCreateClientRejectsBadInput(t *testing.T) {
	router := newClientRouter(t)
	owner := id.UserID(uuid.New())

	tests := []struct {
		name string
		body string
		code string
	}{
		{"missing mobile", `{"type":"Developer","name":"Skyline"}`, "validation_error"},
		{"unknown type", `{"type":"Builder","name":"Skyline","mobile":"1"}`, "validation_error"},
		{"unknown field", `{"type":"Developer","name":"Skyline","mobile":"1","gst":"x"}`, "bad_request"},
		{"empty body", ``, "bad_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewRequestWithBody(t, http.MethodPost, "/clients", tt.body)
			rr := testutil.DoRequest(router, testutil.WithOwner(req, owner))
			testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, tt.code)
		})
	}
}

func TestClientRoutesRequireOwner(t *testing.T) {
	router := newClientRouter(t)
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/clients"))
	testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "internal_error")
}

func TestClientRoutesRejectMalformedID(t *testing.T) {
	router := newClientRouter(t)
	req := testutil.WithUserID(testutil.NewRequest(t, http.MethodGet, "/clients/not-a-uuid"), uuid.NewString())
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
}
