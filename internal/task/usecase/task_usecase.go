package usecase

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"taskpilot-backend/internal/task/domain"
	"taskpilot-backend/internal/task/repository"
	"taskpilot-backend/pkg/fuzzy"

	"github.com/google/uuid"
)

// taskUsecase implements TaskUsecase over whole-collection read-modify-write
// cycles against the TaskStore.
type taskUsecase struct {
	store repository.TaskStore
}

// NewTaskUsecase creates a new instance of taskUsecase
func NewTaskUsecase(store repository.TaskStore) TaskUsecase {
	return &taskUsecase{store: store}
}

func (u *taskUsecase) Add(userID string, req CreateTaskRequest) (*domain.Task, error) {
	now := time.Now()
	task := domain.Task{
		ID:               uuid.New().String(),
		Title:            req.Title,
		Description:      req.Description,
		Status:           domain.TaskStatusPending,
		Priority:         domain.PriorityMedium,
		DueTime:          req.DueTime,
		ReminderEnabled:  req.ReminderEnabled,
		ReminderMinutes:  req.ReminderMinutes,
		ReminderNotified: false,
		Tags:             req.Tags,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.Status != "" {
		task.Status = domain.TaskStatus(req.Status)
	}
	if req.Priority != "" {
		task.Priority = domain.Priority(req.Priority)
	}

	var reasons []string
	if req.DueDate != nil && *req.DueDate != "" {
		t, err := parseTimestamp(*req.DueDate)
		if err != nil {
			reasons = append(reasons, "due date must be a valid calendar date")
		} else {
			task.DueDate = &t
		}
	}
	if req.ReminderAt != nil && *req.ReminderAt != "" {
		t, err := parseTimestamp(*req.ReminderAt)
		if err != nil {
			reasons = append(reasons, "reminder time must be a valid timestamp")
		} else {
			task.ReminderAt = &t
		}
	}

	task.Normalize()
	reasons = append(reasons, domain.Validate(&task).Errors...)
	if len(reasons) > 0 {
		return nil, domain.NewValidationError(reasons...)
	}

	err := u.store.Mutate(userID, func(tasks []domain.Task) ([]domain.Task, error) {
		return append(tasks, task), nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (u *taskUsecase) Get(userID, taskID string) (*domain.Task, error) {
	tasks, err := u.store.Load(userID)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == taskID {
			found := tasks[i]
			return &found, nil
		}
	}
	return nil, nil
}

func (u *taskUsecase) Update(userID, taskID string, updates UpdateTaskRequest) (*domain.Task, error) {
	var updated domain.Task
	err := u.store.Mutate(userID, func(tasks []domain.Task) ([]domain.Task, error) {
		idx := -1
		for i := range tasks {
			if tasks[i].ID == taskID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("update task %s: %w", taskID, domain.ErrTaskNotFound)
		}

		// merge onto a copy; the stored record stays untouched if the
		// merged result fails validation
		merged := tasks[idx]
		merged.Tags = append([]string(nil), merged.Tags...)

		var reasons []string
		if updates.Title != nil {
			merged.Title = *updates.Title
		}
		if updates.Description != nil {
			merged.Description = *updates.Description
		}
		if updates.Status != nil {
			merged.Status = domain.TaskStatus(*updates.Status)
		}
		if updates.Priority != nil {
			merged.Priority = domain.Priority(*updates.Priority)
		}
		if updates.DueTime != nil {
			merged.DueTime = *updates.DueTime
		}
		if updates.ReminderEnabled != nil {
			merged.ReminderEnabled = *updates.ReminderEnabled
		}
		if updates.ReminderMinutes != nil {
			merged.ReminderMinutes = *updates.ReminderMinutes
		}
		if updates.Tags != nil {
			merged.Tags = updates.Tags
		}
		if updates.DueDate != nil {
			if *updates.DueDate == "" {
				merged.DueDate = nil
			} else if t, err := parseTimestamp(*updates.DueDate); err != nil {
				reasons = append(reasons, "due date must be a valid calendar date")
			} else {
				merged.DueDate = &t
			}
		}
		if updates.ReminderAt != nil {
			if *updates.ReminderAt == "" {
				merged.ReminderAt = nil
			} else if t, err := parseTimestamp(*updates.ReminderAt); err != nil {
				reasons = append(reasons, "reminder time must be a valid timestamp")
			} else {
				merged.ReminderAt = &t
			}
			// reminder time changed: the task re-arms
			if !sameTime(tasks[idx].ReminderAt, merged.ReminderAt) {
				merged.ReminderNotified = false
			}
		}

		// id and creation time survive whatever the update carried
		merged.ID = tasks[idx].ID
		merged.CreatedAt = tasks[idx].CreatedAt
		merged.UpdatedAt = time.Now()

		merged.Normalize()
		reasons = append(reasons, domain.Validate(&merged).Errors...)
		if len(reasons) > 0 {
			return nil, domain.NewValidationError(reasons...)
		}

		tasks[idx] = merged
		updated = merged
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (u *taskUsecase) Delete(userID, taskID string) error {
	return u.store.Mutate(userID, func(tasks []domain.Task) ([]domain.Task, error) {
		for i := range tasks {
			if tasks[i].ID == taskID {
				return append(tasks[:i], tasks[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("delete task %s: %w", taskID, domain.ErrTaskNotFound)
	})
}

func (u *taskUsecase) List(userID string, criteria FilterCriteria) ([]domain.Task, error) {
	tasks, err := u.store.Load(userID)
	if err != nil {
		return nil, err
	}
	if criteria.Empty() {
		return tasks, nil
	}

	var day time.Time
	if criteria.DueDate != "" {
		day, err = time.Parse("2006-01-02", criteria.DueDate)
		if err != nil {
			return nil, domain.NewValidationError("due date filter must be in YYYY-MM-DD format")
		}
	}

	out := make([]domain.Task, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		if criteria.Status != "" && t.Status != domain.TaskStatus(criteria.Status) {
			continue
		}
		if criteria.Priority != "" && t.Priority != domain.Priority(criteria.Priority) {
			continue
		}
		if criteria.DueDate != "" {
			if t.DueDate == nil || !sameDay(*t.DueDate, day) {
				continue
			}
		}
		if criteria.Tag != "" && !t.HasTag(criteria.Tag) {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (u *taskUsecase) Search(userID, query string) ([]domain.Task, error) {
	tasks, err := u.store.Load(userID)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return tasks, nil
	}
	out := make([]domain.Task, 0, len(tasks))
	for i := range tasks {
		if tasks[i].Matches(query) {
			out = append(out, tasks[i])
		}
	}
	return out, nil
}

func (u *taskUsecase) Suggestions(userID, query string, limit int) ([]string, error) {
	tasks, err := u.store.Load(userID)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return []string{}, nil
	}

	type scored struct {
		title string
		score float64
	}
	var matches []scored
	for i := range tasks {
		score := fuzzy.CalculateRelevanceScore(query, tasks[i].Title, tasks[i].Tags)
		if score > 0 {
			matches = append(matches, scored{title: tasks[i].Title, score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	seen := make(map[string]bool)
	out := make([]string, 0, limit)
	for _, m := range matches {
		if seen[m.title] {
			continue
		}
		seen[m.title] = true
		out = append(out, m.title)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (u *taskUsecase) Stats(userID string) (domain.Stats, error) {
	tasks, err := u.store.Load(userID)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.ComputeStats(tasks), nil
}

// parseTimestamp accepts RFC3339 or a bare calendar date.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
