package repository

import (
	"taskpilot-backend/internal/task/domain"
)

// UserTasks pairs a user id with that user's full task collection. The
// reminder scheduler uses it to scan every collection in one pass.
type UserTasks struct {
	UserID string
	Tasks  []domain.Task
}

// TaskStore persists each user's task collection as one unit. There are no
// partial writes: Save replaces the whole collection.
type TaskStore interface {
	// Load returns the user's collection. An absent or unparseable
	// collection yields an empty slice, not an error.
	Load(userID string) ([]domain.Task, error)

	// Save replaces the user's collection.
	Save(userID string, tasks []domain.Task) error

	// Mutate runs one read-modify-write cycle over the user's collection
	// as a single transaction. fn receives the current collection and
	// returns the replacement; returning an error aborts without writing.
	Mutate(userID string, fn func(tasks []domain.Task) ([]domain.Task, error)) error

	// Clear removes the user's collection entirely.
	Clear(userID string) error

	// All returns every stored collection.
	All() ([]UserTasks, error)
}
