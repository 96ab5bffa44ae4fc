package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"reratrack/internal/client/models"
	id "reratrack/pkg/domain"
	"reratrack/pkg/platform/sentinel"
)

// Error Contract:
// - ErrNotFound when the client does not exist
// - ErrConflict when a client ID is reused

// InMemory keeps clients in process memory.
type InMemory struct {
	mu      sync.RWMutex
	clients map[id.ClientID]models.Client
}

func NewInMemory() *InMemory {
	return &InMemory{clients: make(map[id.ClientID]models.Client)}
}

func (s *InMemory) Create(_ context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.clients[client.ID]; exists {
		return fmt.Errorf("client %s: %w", client.ID, sentinel.ErrConflict)
	}
	s.clients[client.ID] = *client
	return nil
}

func (s *InMemory) FindByID(_ context.Context, clientID id.ClientID) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("client %s: %w", clientID, sentinel.ErrNotFound)
	}
	return &c, nil
}

// ListByOwner returns the owner's clients oldest first.
func (s *InMemory) ListByOwner(_ context.Context, ownerID id.UserID) ([]*models.Client, error) {
	return s.filter(ownerID, func(models.Client) bool { return true }), nil
}

// Search returns the owner's clients whose name, promoter name or location
// contains query, ignoring case.
func (s *InMemory) Search(_ context.Context, ownerID id.UserID, query string) ([]*models.Client, error) {
	q := strings.ToLower(query)
	return s.filter(ownerID, func(c models.Client) bool {
		return strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.PromoterName), q) ||
			strings.Contains(strings.ToLower(c.Location), q)
	}), nil
}

func (s *InMemory) filter(ownerID id.UserID, match func(models.Client) bool) []*models.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Client, 0)
	for _, c := range s.clients {
		if c.OwnerID == ownerID && match(c) {
			c := c
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *InMemory) Delete(_ context.Context, clientID id.ClientID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[clientID]; !ok {
		return fmt.Errorf("client %s: %w", clientID, sentinel.ErrNotFound)
	}
	delete(s.clients, clientID)
	return nil
}
