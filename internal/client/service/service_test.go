package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"reratrack/internal/audit"
	checklistmodels "reratrack/internal/checklist/models"
	checklistservice "reratrack/internal/checklist/service"
	checkliststore "reratrack/internal/checklist/store"
	"reratrack/internal/client/models"
	"reratrack/internal/client/service/mocks"
	"reratrack/internal/client/store"
	ledgerservice "reratrack/internal/ledger/service"
	ledgerstore "reratrack/internal/ledger/store"
	taskmodels "reratrack/internal/task/models"
	taskservice "reratrack/internal/task/service"
	taskstore "reratrack/internal/task/store"
	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
	"reratrack/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,ChecklistProvisioner,PaymentCleaner,TaskCleaner

type ClientServiceSuite struct {
	suite.Suite
	ctx        context.Context
	store      *store.InMemory
	checklists *checklistservice.Service
	ledger     *ledgerservice.Service
	tasks      *taskservice.Service
	events     *audit.Publisher
	service    *Service
	ownerID    id.UserID
}

func TestClientServiceSuite(t *testing.T) {
	suite.Run(t, new(ClientServiceSuite))
}

func (s *ClientServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC))
	s.store = store.NewInMemory()
	lookup := NewLookup(s.store)
	s.checklists = checklistservice.New(checkliststore.NewInMemory(), lookup)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.events = audit.NewPublisher(audit.NewInMemoryStore())
	s.ledger = ledgerservice.New(ledgerstore.NewInMemory(), lookup)
	s.tasks = taskservice.New(taskstore.NewInMemory(), lookup)
	s.service = New(s.store, NewInMemoryTx(0), s.checklists, s.ledger, s.tasks,
		WithLogger(logger),
		WithAuditEmitter(audit.NewEmitter(logger, s.events)),
	)
	s.ownerID = id.UserID(uuid.New())
}

func profile(name string) models.Profile {
	return models.Profile{Type: "Developer", Name: name, Mobile: "9820000000"}
}

func (s *ClientServiceSuite) TestCreateProvisionsChecklist() {
	client, checklist, err := s.service.Create(s.ctx, s.ownerID, profile("Skyline"))
	s.Require().NoError(err)

	s.Equal(client.ID, checklist.ClientID)
	s.Len(checklist.Items, checklistmodels.DefaultDocumentCount)
	s.Len(checklist.Pending(), checklistmodels.DefaultDocumentCount)

	stored, err := s.checklists.GetByClient(s.ctx, s.ownerID, client.ID)
	s.Require().NoError(err)
	s.Equal(checklist.ID, stored.ID)

	events, err := s.events.List(s.ctx, s.ownerID)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.ActionClientCreated, events[0].Action)
}

func (s *ClientServiceSuite) TestCreateRejectsInvalidProfile() {
	_, _, err := s.service.Create(s.ctx, s.ownerID, models.Profile{Type: "Developer", Name: "No Mobile"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	clients, err := s.service.List(s.ctx, s.ownerID)
	s.Require().NoError(err)
	s.Empty(clients)
}

func (s *ClientServiceSuite) TestFailedProvisioningLeavesNoClient() {
	ctrl := gomock.NewController(s.T())
	provisioner := mocks.NewMockChecklistProvisioner(ctrl)
	svc := New(s.store, NewInMemoryTx(0), provisioner, s.ledger, s.tasks)

	provisioner.EXPECT().Provision(gomock.Any(), gomock.Any(), s.ownerID).
		Return(nil, dErrors.Wrap(errors.New("disk full"), dErrors.CodeInternal, "failed to provision checklist"))

	_, _, err := svc.Create(s.ctx, s.ownerID, profile("Orphan"))
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	clients, err := s.service.List(s.ctx, s.ownerID)
	s.Require().NoError(err)
	s.Empty(clients, "client must be removed when provisioning fails")
}

func (s *ClientServiceSuite) TestStoreFailureSkipsProvisioning() {
	ctrl := gomock.NewController(s.T())
	mockStore := mocks.NewMockStore(ctrl)
	provisioner := mocks.NewMockChecklistProvisioner(ctrl)
	svc := New(mockStore, NewInMemoryTx(0), provisioner, s.ledger, s.tasks)

	mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
	mockStore.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	_, _, err := svc.Create(s.ctx, s.ownerID, profile("Broken"))
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ClientServiceSuite) TestGetAndListAreOwnerScoped() {
	first, _, err := s.service.Create(s.ctx, s.ownerID, profile("First"))
	s.Require().NoError(err)
	later := requestcontext.WithTime(s.ctx, requestcontext.Now(s.ctx).Add(time.Minute))
	second, _, err := s.service.Create(later, s.ownerID, profile("Second"))
	s.Require().NoError(err)
	_, _, err = s.service.Create(s.ctx, id.UserID(uuid.New()), profile("Foreign"))
	s.Require().NoError(err)

	list, err := s.service.List(s.ctx, s.ownerID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(first.ID, list[0].ID)
	s.Equal(second.ID, list[1].ID)

	_, err = s.service.Get(s.ctx, id.UserID(uuid.New()), first.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	exists, err := s.service.Exists(s.ctx, s.ownerID, first.ID)
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.service.Exists(s.ctx, id.UserID(uuid.New()), first.ID)
	s.Require().NoError(err)
	s.False(exists)
}

func (s *ClientServiceSuite) TestDeleteCascades() {
	client, _, err := s.service.Create(s.ctx, s.ownerID, profile("Cascade"))
	s.Require().NoError(err)
	invoice, err := s.ledger.CreateInvoice(s.ctx, s.ownerID, ledgerservice.CreateInvoiceCommand{
		ClientID: client.ID, Amount: decimal.NewFromInt(1000), Description: "Open invoice",
	})
	s.Require().NoError(err)
	task, err := s.tasks.Create(s.ctx, s.ownerID, client.ID, taskmodels.Details{Title: "Form 5"})
	s.Require().NoError(err)

	s.Require().NoError(s.service.Delete(s.ctx, s.ownerID, client.ID))

	_, err = s.service.Get(s.ctx, s.ownerID, client.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = s.checklists.GetByClient(s.ctx, s.ownerID, client.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = s.ledger.Get(s.ctx, s.ownerID, invoice.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = s.tasks.Get(s.ctx, s.ownerID, task.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ClientServiceSuite) TestTaskCleanupFailureKeepsClient() {
	ctrl := gomock.NewController(s.T())
	tasks := mocks.NewMockTaskCleaner(ctrl)
	svc := New(s.store, NewInMemoryTx(0), s.checklists, s.ledger, tasks)
	client, _, err := svc.Create(s.ctx, s.ownerID, profile("Stuck"))
	s.Require().NoError(err)

	tasks.EXPECT().DeleteByClient(gomock.Any(), client.ID).
		Return(dErrors.Wrap(errors.New("connection reset"), dErrors.CodeInternal, "failed to delete tasks"))

	err = svc.Delete(s.ctx, s.ownerID, client.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	_, err = svc.Get(s.ctx, s.ownerID, client.ID)
	s.NoError(err)
}

func (s *ClientServiceSuite) TestSearch() {
	mk := func(name, promoter, location string) {
		_, _, err := s.service.Create(s.ctx, s.ownerID, models.Profile{
			Type: "Developer", Name: name, PromoterName: promoter, Location: location, Mobile: "9820000000",
		})
		s.Require().NoError(err)
	}
	mk("Skyline Builders", "", "Pune")
	mk("Harbour Realty", "Anil Sky", "Mumbai")
	mk("Green Acres", "", "Nashik")
	_, _, err := s.service.Create(s.ctx, id.UserID(uuid.New()), profile("Skyline Foreign"))
	s.Require().NoError(err)

	names := func(list []*models.Client) []string {
		out := make([]string, 0, len(list))
		for _, c := range list {
			out = append(out, c.Name)
		}
		return out
	}

	s.Run("matches name, promoter and location ignoring case", func() {
		list, err := s.service.Search(s.ctx, s.ownerID, "  sky ")
		s.Require().NoError(err)
		s.ElementsMatch([]string{"Skyline Builders", "Harbour Realty"}, names(list))

		list, err = s.service.Search(s.ctx, s.ownerID, "NASHIK")
		s.Require().NoError(err)
		s.Equal([]string{"Green Acres"}, names(list))
	})

	s.Run("empty query lists every client of the owner", func() {
		list, err := s.service.Search(s.ctx, s.ownerID, "")
		s.Require().NoError(err)
		s.Len(list, 3)
	})

	s.Run("store failure is internal", func() {
		ctrl := gomock.NewController(s.T())
		mockStore := mocks.NewMockStore(ctrl)
		mockStore.EXPECT().Search(gomock.Any(), s.ownerID, "sky").Return(nil, errors.New("connection reset"))

		_, err := New(mockStore, NewInMemoryTx(0), s.checklists, s.ledger, s.tasks).Search(s.ctx, s.ownerID, "sky")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ClientServiceSuite) TestDeleteForeignClientIsNotFound() {
	client, _, err := s.service.Create(s.ctx, s.ownerID, profile("Mine"))
	s.Require().NoError(err)

	err = s.service.Delete(s.ctx, id.UserID(uuid.New()), client.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.service.Get(s.ctx, s.ownerID, client.ID)
	s.NoError(err)
}

func (s *ClientServiceSuite) TestCancelledContextAbortsTransaction() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, _, err := s.service.Create(ctx, s.ownerID, profile("Late"))
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
}
