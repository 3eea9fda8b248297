package repository

import (
	"sort"
	"sync"

	"taskpilot-backend/internal/task/domain"
)

// memoryTaskStore keeps collections in a mutex-guarded map. It backs unit
// tests and single-process deployments without a database.
type memoryTaskStore struct {
	mu          sync.Mutex
	collections map[string][]domain.Task
}

// NewMemoryTaskStore creates an empty in-memory TaskStore
func NewMemoryTaskStore() TaskStore {
	return &memoryTaskStore{
		collections: make(map[string][]domain.Task),
	}
}

func (s *memoryTaskStore) Load(userID string) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyTasks(s.collections[userID]), nil
}

func (s *memoryTaskStore) Save(userID string, tasks []domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[userID] = copyTasks(tasks)
	return nil
}

func (s *memoryTaskStore) Mutate(userID string, fn func(tasks []domain.Task) ([]domain.Task, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(copyTasks(s.collections[userID]))
	if err != nil {
		return err
	}
	s.collections[userID] = copyTasks(next)
	return nil
}

func (s *memoryTaskStore) Clear(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, userID)
	return nil
}

func (s *memoryTaskStore) All() ([]UserTasks, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]UserTasks, 0, len(s.collections))
	for userID, tasks := range s.collections {
		out = append(out, UserTasks{UserID: userID, Tasks: copyTasks(tasks)})
	}
	// map iteration order is random; keep scans deterministic
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func copyTasks(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		out[i].Tags = append([]string(nil), out[i].Tags...)
	}
	return out
}
