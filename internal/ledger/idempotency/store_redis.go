package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var reserveDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "reratrack_idempotency_reserve_duration_ms",
	Help:    "Latency of idempotency key reservations in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

const keyPrefix = "reratrack:idem:"

const (
	pendingValue = "pending"
	doneValue    = "done"
)

// RedisStore reserves keys with SET NX and a TTL so every instance sees the
// same reservations. A held key reads "pending" until Complete marks it
// "done".
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Reserve claims key for ttl, or reports what the current holder reached.
func (s *RedisStore) Reserve(ctx context.Context, key string, ttl time.Duration) (State, error) {
	start := time.Now()
	defer func() {
		reserveDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()
	ok, err := s.client.SetNX(ctx, keyPrefix+key, pendingValue, ttl).Result()
	if err != nil {
		return InProgress, err
	}
	if ok {
		return Reserved, nil
	}
	val, err := s.client.Get(ctx, keyPrefix+key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// Expired between the two calls; the caller may retry.
		return InProgress, nil
	case err != nil:
		return InProgress, err
	case val == doneValue:
		return Completed, nil
	default:
		return InProgress, nil
	}
}

// Complete marks key as done and keeps it for ttl so replays see the result.
func (s *RedisStore) Complete(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Set(ctx, keyPrefix+key, doneValue, ttl).Err()
}

// Release drops a reservation so a failed request can be retried.
func (s *RedisStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, keyPrefix+key).Err()
}
