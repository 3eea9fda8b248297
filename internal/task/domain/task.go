package domain

import (
	"strings"
	"time"
)

// Priority represents task priority level
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Task represents a single to-do item owned by a user
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	DueTime     string     `json:"due_time,omitempty"` // "HH:MM", 24-hour

	ReminderEnabled  bool       `json:"reminder_enabled"`
	ReminderAt       *time.Time `json:"reminder_at,omitempty"`
	ReminderMinutes  int        `json:"reminder_minutes"` // offset before due, in minutes
	ReminderNotified bool       `json:"reminder_notified"`

	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Armed reports whether the task carries an enabled reminder that has not
// fired yet. Completed tasks are never armed.
func (t *Task) Armed() bool {
	return t.ReminderEnabled &&
		t.ReminderAt != nil &&
		!t.ReminderNotified &&
		t.Status != TaskStatusCompleted
}

// Normalize trims all string fields and drops empty tags. Runs before
// validation so whitespace-only input fails the non-empty rules.
func (t *Task) Normalize() {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	t.DueTime = strings.TrimSpace(t.DueTime)
	t.Tags = NormalizeTags(t.Tags)
}

// NormalizeTags trims each tag and filters out the ones that end up empty.
// Order is preserved; duplicates are allowed.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// HasTag reports whether any of the task's tags equals tag, case-insensitively.
func (t *Task) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if strings.EqualFold(have, tag) {
			return true
		}
	}
	return false
}

// Matches reports whether query occurs as a substring of the task's title,
// description, or any tag. The caller is expected to have trimmed and
// lowercased the query already.
func (t *Task) Matches(query string) bool {
	if strings.Contains(strings.ToLower(t.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), query) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// Stats holds one-pass counts over a task collection
type Stats struct {
	Total        int `json:"total"`
	Pending      int `json:"pending"`
	InProgress   int `json:"in_progress"`
	Completed    int `json:"completed"`
	HighPriority int `json:"high_priority"`
}

// ComputeStats tallies the collection in a single pass.
func ComputeStats(tasks []Task) Stats {
	var s Stats
	s.Total = len(tasks)
	for i := range tasks {
		switch tasks[i].Status {
		case TaskStatusPending:
			s.Pending++
		case TaskStatusInProgress:
			s.InProgress++
		case TaskStatusCompleted:
			s.Completed++
		}
		if tasks[i].Priority == PriorityHigh {
			s.HighPriority++
		}
	}
	return s
}
