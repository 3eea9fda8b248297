package scheduler

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"taskpilot-backend/internal/notification"
	"taskpilot-backend/internal/task/domain"
	"taskpilot-backend/internal/task/repository"
)

// DefaultInterval is how often the reminder scan runs. The due window is
// derived from it, so a slower interval widens the window accordingly.
const DefaultInterval = time.Minute

// ReminderScheduler periodically scans every task collection for armed
// reminders whose time has come, dispatches a notification, and marks the
// task so it fires at most once per armed cycle.
type ReminderScheduler struct {
	store    repository.TaskStore
	notifier notification.Notifier
	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	stopChan chan struct{}
	running  bool
}

// NewReminderScheduler creates a new scheduler. A non-positive interval
// falls back to DefaultInterval.
func NewReminderScheduler(store repository.TaskStore, notifier notification.Notifier, interval time.Duration) *ReminderScheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &ReminderScheduler{
		store:    store,
		notifier: notifier,
		interval: interval,
		now:      time.Now,
	}
}

// Start begins the scheduler loop. Calling Start on a running scheduler is
// a no-op.
func (s *ReminderScheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	stop := s.stopChan
	s.mu.Unlock()

	log.Printf("[ReminderScheduler] Starting (interval: %s)", s.interval)

	go func() {
		// run immediately on start
		s.Scan()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Scan()
			case <-stop:
				log.Println("[ReminderScheduler] Stopped")
				return
			}
		}
	}()
}

// Stop cancels the pending timer. It is safe to call when the scheduler is
// not running, and safe to call more than once.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stopChan)
}

// Scan performs one pass over every stored collection. Errors are logged
// and the rest of the pass continues; the next tick is unaffected.
func (s *ReminderScheduler) Scan() {
	now := s.now()

	collections, err := s.store.All()
	if err != nil {
		log.Printf("[ReminderScheduler] Error loading collections: %v", err)
		return
	}

	for _, col := range collections {
		for i := range col.Tasks {
			task := &col.Tasks[i]
			if !task.Armed() {
				continue
			}
			if !s.due(*task.ReminderAt, now) {
				continue
			}

			n := notification.Notification{
				Title: "Reminder: " + task.Title,
				Body:  reminderBody(task),
				Tag:   task.ID,
			}
			if err := s.notifier.Notify(context.Background(), col.UserID, n); err != nil {
				// not marked: the task may still fire on the next
				// tick while inside the due window
				log.Printf("[ReminderScheduler] Error notifying for task %s: %v", task.ID, err)
				continue
			}

			if err := s.markNotified(col.UserID, task.ID); err != nil {
				log.Printf("[ReminderScheduler] Error marking task %s notified: %v", task.ID, err)
			}
		}
	}
}

// due reports whether a reminder falls inside the current window. The window
// straddles the scheduled moment: (-interval, +interval]. The asymmetry is
// deliberate — the strict lower bound is what guarantees a task is eligible
// on exactly one tick per armed cycle, since the next scan runs one full
// interval later. A reminder more than one interval in the past is never
// fired retroactively.
func (s *ReminderScheduler) due(reminderAt, now time.Time) bool {
	delta := reminderAt.Sub(now)
	return delta > -s.interval && delta <= s.interval
}

// markNotified re-reads the collection before flipping the flag so that a
// user edit racing the scan is not clobbered wholesale.
func (s *ReminderScheduler) markNotified(userID, taskID string) error {
	return s.store.Mutate(userID, func(tasks []domain.Task) ([]domain.Task, error) {
		for i := range tasks {
			if tasks[i].ID == taskID {
				tasks[i].ReminderNotified = true
				tasks[i].UpdatedAt = s.now()
				return tasks, nil
			}
		}
		return nil, fmt.Errorf("mark notified %s: %w", taskID, domain.ErrTaskNotFound)
	})
}

// UpcomingReminders returns the user's armed tasks whose reminder is still
// in the future, soonest first.
func (s *ReminderScheduler) UpcomingReminders(userID string) ([]domain.Task, error) {
	tasks, err := s.store.Load(userID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	out := make([]domain.Task, 0, len(tasks))
	for i := range tasks {
		if tasks[i].Armed() && tasks[i].ReminderAt.After(now) {
			out = append(out, tasks[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReminderAt.Before(*out[j].ReminderAt)
	})
	return out, nil
}

func reminderBody(task *domain.Task) string {
	body := task.Description
	if body == "" {
		body = "You have a task waiting"
	}
	if task.DueDate != nil {
		due := task.DueDate.Format("2006-01-02")
		if task.DueTime != "" {
			due += " " + task.DueTime
		}
		body = fmt.Sprintf("%s (due %s)", body, due)
	}
	return body
}
