package idempotency

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	expiresAt time.Time
	done      bool
}

// InMemoryStore keeps reservations in process memory. Expired keys are
// dropped lazily on access.
type InMemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

type InMemoryOption func(*InMemoryStore)

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) InMemoryOption {
	return func(s *InMemoryStore) {
		s.now = now
	}
}

func NewInMemoryStore(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{entries: make(map[string]entry), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Reserve(_ context.Context, key string, ttl time.Duration) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if e, ok := s.entries[key]; ok && now.Before(e.expiresAt) {
		if e.done {
			return Completed, nil
		}
		return InProgress, nil
	}
	s.entries[key] = entry{expiresAt: now.Add(ttl)}
	return Reserved, nil
}

func (s *InMemoryStore) Complete(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{expiresAt: s.now().Add(ttl), done: true}
	return nil
}

func (s *InMemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
