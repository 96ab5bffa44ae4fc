package audit

import (
	"context"
	"sync"

	id "reratrack/pkg/domain"
)

// Store persists audit events in append-only fashion.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByOwner(ctx context.Context, ownerID id.UserID) ([]Event, error)
}

// InMemoryStore keeps events in process memory, grouped by owner.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.UserID][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.UserID][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.OwnerID] = append(s.events[event.OwnerID], event)
	return nil
}

func (s *InMemoryStore) ListByOwner(_ context.Context, ownerID id.UserID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event(nil), s.events[ownerID]...), nil
}
