package notification

import (
	"context"
	"log"
)

// Notification is the payload handed to the delivery sink when a reminder
// fires. Tag carries the originating task id so clients can collapse
// duplicate alerts.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag"`
}

// Notifier delivers a notification to all of a user's registered devices.
// Delivery and permission semantics belong to the implementation.
type Notifier interface {
	Notify(ctx context.Context, userID string, n Notification) error
}

// LogNotifier writes notifications to the process log. It is the fallback
// sink when push delivery is not configured.
type LogNotifier struct{}

// NewLogNotifier creates a log-only Notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (l *LogNotifier) Notify(_ context.Context, userID string, n Notification) error {
	log.Printf("[Notification] user=%s tag=%s title=%q body=%q", userID, n.Tag, n.Title, n.Body)
	return nil
}
