//go:build integration

package idempotency_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"reratrack/internal/ledger/idempotency"
	"reratrack/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *idempotency.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = idempotency.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestReserveOnce() {
	ctx := context.Background()

	state, err := s.store.Reserve(ctx, "owner:payment:k1", time.Minute)
	s.Require().NoError(err)
	s.Equal(idempotency.Reserved, state)

	state, err = s.store.Reserve(ctx, "owner:payment:k1", time.Minute)
	s.Require().NoError(err)
	s.Equal(idempotency.InProgress, state)

	ttl, err := s.redis.Client.TTL(ctx, "reratrack:idem:owner:payment:k1").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func (s *RedisStoreSuite) TestCompleteIsSeenByReplays() {
	ctx := context.Background()

	_, err := s.store.Reserve(ctx, "owner:payment:k3", time.Minute)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Complete(ctx, "owner:payment:k3", time.Hour))

	state, err := s.store.Reserve(ctx, "owner:payment:k3", time.Minute)
	s.Require().NoError(err)
	s.Equal(idempotency.Completed, state)

	ttl, err := s.redis.Client.TTL(ctx, "reratrack:idem:owner:payment:k3").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Minute)
}

func (s *RedisStoreSuite) TestReleaseAllowsRetry() {
	ctx := context.Background()

	_, err := s.store.Reserve(ctx, "owner:payment:k2", time.Minute)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Release(ctx, "owner:payment:k2"))

	state, err := s.store.Reserve(ctx, "owner:payment:k2", time.Minute)
	s.Require().NoError(err)
	s.Equal(idempotency.Reserved, state)
}
