package usecase

import (
	"taskpilot-backend/internal/task/domain"
)

// TaskUsecase defines the interface for task business logic
type TaskUsecase interface {
	// Add validates and appends a new task to the user's collection
	Add(userID string, req CreateTaskRequest) (*domain.Task, error)

	// Get retrieves a task by id; returns nil (not an error) when absent
	Get(userID, taskID string) (*domain.Task, error)

	// List returns the tasks matching the criteria, collection order preserved
	List(userID string, criteria FilterCriteria) ([]domain.Task, error)

	// Search returns tasks whose title, description, or tags contain the
	// query; a blank query returns the whole collection
	Search(userID, query string) ([]domain.Task, error)

	// Suggestions returns task titles ranked by fuzzy relevance to the query
	Suggestions(userID, query string, limit int) ([]string, error)

	// Update merges the given fields onto an existing task
	Update(userID, taskID string, updates UpdateTaskRequest) (*domain.Task, error)

	// Delete removes a task from the collection
	Delete(userID, taskID string) error

	// Stats tallies the collection in one pass
	Stats(userID string) (domain.Stats, error)
}

// CreateTaskRequest carries the fields accepted when creating a task.
// Date fields are RFC3339 or YYYY-MM-DD strings.
type CreateTaskRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Status          string   `json:"status"`
	Priority        string   `json:"priority"`
	DueDate         *string  `json:"due_date"`
	DueTime         string   `json:"due_time"`
	ReminderEnabled bool     `json:"reminder_enabled"`
	ReminderAt      *string  `json:"reminder_at"`
	ReminderMinutes int      `json:"reminder_minutes"`
	Tags            []string `json:"tags"`
}

// UpdateTaskRequest represents the fields that can be updated. Nil pointers
// leave the existing value untouched; an empty date string clears it.
type UpdateTaskRequest struct {
	Title           *string  `json:"title,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Status          *string  `json:"status,omitempty"`
	Priority        *string  `json:"priority,omitempty"`
	DueDate         *string  `json:"due_date,omitempty"`
	DueTime         *string  `json:"due_time,omitempty"`
	ReminderEnabled *bool    `json:"reminder_enabled,omitempty"`
	ReminderAt      *string  `json:"reminder_at,omitempty"`
	ReminderMinutes *int     `json:"reminder_minutes,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// FilterCriteria narrows a listing. Zero-valued fields impose no constraint.
type FilterCriteria struct {
	Status   string
	Priority string
	DueDate  string // YYYY-MM-DD, matched by calendar day
	Tag      string // case-insensitive match against any task tag
}

// Empty reports whether the criteria impose no constraint at all.
func (c FilterCriteria) Empty() bool {
	return c.Status == "" && c.Priority == "" && c.DueDate == "" && c.Tag == ""
}
