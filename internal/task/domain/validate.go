package domain

import (
	"fmt"
	"regexp"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
)

// 24-hour clock, zero-padded
var dueTimeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidationResult is the outcome of checking a candidate task. Errors lists
// every violated rule, not just the first one.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Err converts the result into a *ValidationError, or nil when valid.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return NewValidationError(r.Errors...)
}

// Validate checks every field constraint on the candidate task and collects
// all violations. It never mutates its input; callers normalize first.
func Validate(t *Task) ValidationResult {
	var errs []string

	if t.Title == "" {
		errs = append(errs, "title is required")
	} else if len([]rune(t.Title)) > maxTitleLen {
		errs = append(errs, fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}

	if len([]rune(t.Description)) > maxDescriptionLen {
		errs = append(errs, fmt.Sprintf("description must be at most %d characters", maxDescriptionLen))
	}

	switch t.Status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
	default:
		errs = append(errs, fmt.Sprintf("invalid status %q", t.Status))
	}

	switch t.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		errs = append(errs, fmt.Sprintf("invalid priority %q", t.Priority))
	}

	if t.DueTime != "" && !dueTimeRe.MatchString(t.DueTime) {
		errs = append(errs, "due time must be in 24-hour HH:MM format")
	}

	if t.ReminderEnabled && t.ReminderMinutes < 0 {
		errs = append(errs, "reminder minutes must be a non-negative number")
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
