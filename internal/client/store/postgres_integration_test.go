//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"reratrack/internal/client/models"
	"reratrack/internal/client/store"
	id "reratrack/pkg/domain"
	"reratrack/pkg/platform/sentinel"
	"reratrack/pkg/platform/tx"
	"reratrack/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	clock    time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "clients"))
	s.clock = time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) newClient(ownerID id.UserID, name string) *models.Client {
	s.clock = s.clock.Add(time.Second)
	c, err := models.NewClient(id.ClientID(uuid.New()), ownerID, models.Profile{
		Type:       "Agent",
		Name:       name,
		Mobile:     "9820000000",
		ReraNumber: "A51800012345",
	}, s.clock)
	s.Require().NoError(err)
	return c
}

func (s *PostgresStoreSuite) TestCreateFindDelete() {
	ctx := context.Background()
	c := s.newClient(id.UserID(uuid.New()), "Harbour Realty")
	s.Require().NoError(s.store.Create(ctx, c))
	s.ErrorIs(s.store.Create(ctx, c), sentinel.ErrConflict)

	found, err := s.store.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(c.Name, found.Name)
	s.Equal(c.Type, found.Type)
	s.Equal(c.ReraNumber, found.ReraNumber)
	s.True(c.CreatedAt.Equal(found.CreatedAt))

	s.Require().NoError(s.store.Delete(ctx, c.ID))
	s.ErrorIs(s.store.Delete(ctx, c.ID), sentinel.ErrNotFound)
	_, err = s.store.FindByID(ctx, c.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListByOwnerIsScopedAndOrdered() {
	ctx := context.Background()
	owner := id.UserID(uuid.New())
	first := s.newClient(owner, "First")
	second := s.newClient(owner, "Second")
	other := s.newClient(id.UserID(uuid.New()), "Other")
	for _, c := range []*models.Client{second, other, first} {
		s.Require().NoError(s.store.Create(ctx, c))
	}

	list, err := s.store.ListByOwner(ctx, owner)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(first.ID, list[0].ID)
	s.Equal(second.ID, list[1].ID)
}

func (s *PostgresStoreSuite) TestCreateJoinsContextTransaction() {
	ctx := context.Background()
	c := s.newClient(id.UserID(uuid.New()), "Rolled Back")

	sqlTx, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(tx.WithTx(ctx, sqlTx), c))
	s.Require().NoError(sqlTx.Rollback())

	_, err = s.store.FindByID(ctx, c.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSearchMatchesLiterallyIgnoringCase() {
	ctx := context.Background()
	owner := id.UserID(uuid.New())
	skyline := s.newClient(owner, "Skyline Builders")
	skyline.Location = "Pune"
	harbour := s.newClient(owner, "Harbour Realty")
	harbour.PromoterName = "Anil SKY"
	percent := s.newClient(owner, "100% Homes")
	foreign := s.newClient(id.UserID(uuid.New()), "Skyline Foreign")
	for _, c := range []*models.Client{skyline, harbour, percent, foreign} {
		s.Require().NoError(s.store.Create(ctx, c))
	}

	list, err := s.store.Search(ctx, owner, "sky")
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(skyline.ID, list[0].ID)
	s.Equal(harbour.ID, list[1].ID)

	list, err = s.store.Search(ctx, owner, "PUNE")
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(skyline.ID, list[0].ID)

	list, err = s.store.Search(ctx, owner, "0%")
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(percent.ID, list[0].ID)

	list, err = s.store.Search(ctx, owner, "_")
	s.Require().NoError(err)
	s.Empty(list)
}
