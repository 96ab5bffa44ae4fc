package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"reratrack/internal/ledger/models"
	id "reratrack/pkg/domain"
	"reratrack/pkg/platform/sentinel"
)

// Error Contract:
// - ErrNotFound when the payment does not exist
// - ErrConflict when a payment ID is reused
// - validate callback errors are returned unchanged from Execute and DeleteIf
//
// List results are ordered by DateCreated ascending and are copies.

// InMemory keeps payment records in process memory. One mutex guards every
// record, so Execute is serialised across the whole store.
type InMemory struct {
	mu       sync.Mutex
	payments map[id.PaymentID]*models.PaymentRecord
}

func NewInMemory() *InMemory {
	return &InMemory{payments: make(map[id.PaymentID]*models.PaymentRecord)}
}

func (s *InMemory) Create(_ context.Context, record *models.PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.payments[record.ID]; exists {
		return fmt.Errorf("payment %s: %w", record.ID, sentinel.ErrConflict)
	}
	s.payments[record.ID] = record.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, paymentID id.PaymentID) (*models.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.payments[paymentID]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", paymentID, sentinel.ErrNotFound)
	}
	return record.Clone(), nil
}

func (s *InMemory) ListByClient(_ context.Context, ownerID id.UserID, clientID id.ClientID) ([]*models.PaymentRecord, error) {
	return s.list(func(p *models.PaymentRecord) bool {
		return p.OwnerID == ownerID && p.ClientID == clientID
	}), nil
}

func (s *InMemory) ListByOwner(_ context.Context, ownerID id.UserID) ([]*models.PaymentRecord, error) {
	return s.list(func(p *models.PaymentRecord) bool {
		return p.OwnerID == ownerID
	}), nil
}

func (s *InMemory) list(match func(*models.PaymentRecord) bool) []*models.PaymentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.PaymentRecord, 0)
	for _, p := range s.payments {
		if match(p) {
			out = append(out, p.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DateCreated.Equal(out[j].DateCreated) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].DateCreated.Before(out[j].DateCreated)
	})
	return out
}

// Execute runs validate and mutate on the stored record under the store lock
// and bumps Version when mutate runs.
func (s *InMemory) Execute(_ context.Context, paymentID id.PaymentID, validate func(*models.PaymentRecord) error, mutate func(*models.PaymentRecord)) (*models.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.payments[paymentID]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", paymentID, sentinel.ErrNotFound)
	}
	working := current.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	working.Version = current.Version + 1
	s.payments[paymentID] = working
	return working.Clone(), nil
}

// DeleteIf removes the record when validate accepts it.
func (s *InMemory) DeleteIf(_ context.Context, paymentID id.PaymentID, validate func(*models.PaymentRecord) error) (*models.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.payments[paymentID]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", paymentID, sentinel.ErrNotFound)
	}
	if err := validate(current.Clone()); err != nil {
		return nil, err
	}
	delete(s.payments, paymentID)
	return current.Clone(), nil
}

// DeleteByClient removes every record of a client. Missing clients are a no-op.
func (s *InMemory) DeleteByClient(_ context.Context, clientID id.ClientID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for paymentID, p := range s.payments {
		if p.ClientID == clientID {
			delete(s.payments, paymentID)
		}
	}
	return nil
}
