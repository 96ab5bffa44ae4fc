package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"reratrack/internal/task/models"
	id "reratrack/pkg/domain"
	"reratrack/pkg/platform/sentinel"
)

// Error Contract:
// - ErrNotFound when the task does not exist
// - ErrConflict when a task ID is reused

// InMemory keeps tasks in process memory.
type InMemory struct {
	mu    sync.RWMutex
	tasks map[id.TaskID]models.Task
}

func NewInMemory() *InMemory {
	return &InMemory{tasks: make(map[id.TaskID]models.Task)}
}

func (s *InMemory) Create(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[task.ID]; exists {
		return fmt.Errorf("task %s: %w", task.ID, sentinel.ErrConflict)
	}
	s.tasks[task.ID] = *task
	return nil
}

func (s *InMemory) FindByID(_ context.Context, taskID id.TaskID) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", taskID, sentinel.ErrNotFound)
	}
	return &t, nil
}

// ListByClient returns the client's tasks oldest first.
func (s *InMemory) ListByClient(_ context.Context, clientID id.ClientID) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Task, 0)
	for _, t := range s.tasks {
		if t.ClientID == clientID {
			t := t
			out = append(out, &t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Execute runs mutate against a copy of the task under the store lock and
// keeps the result only if mutate succeeds.
func (s *InMemory) Execute(_ context.Context, taskID id.TaskID, mutate func(*models.Task) error) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", taskID, sentinel.ErrNotFound)
	}
	working := stored
	if err := mutate(&working); err != nil {
		return nil, err
	}
	s.tasks[taskID] = working
	return &working, nil
}

func (s *InMemory) Delete(_ context.Context, taskID id.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[taskID]; !ok {
		return fmt.Errorf("task %s: %w", taskID, sentinel.ErrNotFound)
	}
	delete(s.tasks, taskID)
	return nil
}

func (s *InMemory) DeleteByClient(_ context.Context, clientID id.ClientID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for taskID, t := range s.tasks {
		if t.ClientID == clientID {
			delete(s.tasks, taskID)
		}
	}
	return nil
}
