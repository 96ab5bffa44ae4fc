package store

import (
	"context"
	"fmt"
	"sync"

	"reratrack/internal/checklist/models"
	id "reratrack/pkg/domain"
	"reratrack/pkg/platform/sentinel"
)

// Error Contract:
// - ErrNotFound when no checklist exists for the client
// - ErrConflict when provisioning a client that already has a checklist
// - validate callback errors are returned unchanged from Execute
//
// Returned checklists are copies; mutating them never touches the store.

// InMemory keeps checklists in process memory, keyed by client.
type InMemory struct {
	mu       sync.Mutex
	byClient map[id.ClientID]*models.Checklist
}

// NewInMemory constructs an empty in-memory checklist store.
func NewInMemory() *InMemory {
	return &InMemory{byClient: make(map[id.ClientID]*models.Checklist)}
}

func (s *InMemory) Create(_ context.Context, checklist *models.Checklist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byClient[checklist.ClientID]; exists {
		return fmt.Errorf("checklist for client %s: %w", checklist.ClientID, sentinel.ErrConflict)
	}
	s.byClient[checklist.ClientID] = checklist.Clone()
	return nil
}

func (s *InMemory) FindByClient(_ context.Context, clientID id.ClientID) (*models.Checklist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byClient[clientID]
	if !ok {
		return nil, fmt.Errorf("checklist for client %s: %w", clientID, sentinel.ErrNotFound)
	}
	return c.Clone(), nil
}

// FindByClients returns the checklists that exist among clientIDs.
// Missing clients are simply absent from the result.
func (s *InMemory) FindByClients(_ context.Context, clientIDs []id.ClientID) (map[id.ClientID]*models.Checklist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[id.ClientID]*models.Checklist, len(clientIDs))
	for _, clientID := range clientIDs {
		if c, ok := s.byClient[clientID]; ok {
			out[clientID] = c.Clone()
		}
	}
	return out, nil
}

// Execute runs validate then mutate on the stored checklist while holding the
// store lock, so concurrent mutations of one checklist never interleave.
func (s *InMemory) Execute(_ context.Context, clientID id.ClientID, validate func(*models.Checklist) error, mutate func(*models.Checklist)) (*models.Checklist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.byClient[clientID]
	if !ok {
		return nil, fmt.Errorf("checklist for client %s: %w", clientID, sentinel.ErrNotFound)
	}
	working := stored.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.byClient[clientID] = working
	return working.Clone(), nil
}

func (s *InMemory) DeleteByClient(_ context.Context, clientID id.ClientID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byClient, clientID)
	return nil
}
