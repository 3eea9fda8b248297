package notification

import (
	"context"
	"log"

	authrepo "taskpilot-backend/internal/auth/repository"
	"taskpilot-backend/pkg/fcm"
)

// FCMNotifier pushes notifications to every device token the user has
// registered, pruning tokens the provider rejects.
type FCMNotifier struct {
	client     *fcm.Client
	deviceRepo authrepo.DeviceTokenRepository
}

// NewFCMNotifier creates a push-backed Notifier
func NewFCMNotifier(client *fcm.Client, deviceRepo authrepo.DeviceTokenRepository) *FCMNotifier {
	return &FCMNotifier{
		client:     client,
		deviceRepo: deviceRepo,
	}
}

func (f *FCMNotifier) Notify(ctx context.Context, userID string, n Notification) error {
	tokens, err := f.deviceRepo.GetTokensByUserID(userID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		log.Printf("[Notification] No device tokens for user %s, dropping notification %s", userID, n.Tag)
		return nil
	}

	tokenStrings := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	msg := fcm.Message{
		Title: n.Title,
		Body:  n.Body,
		Tag:   n.Tag,
		Data: map[string]string{
			"type":         "task_reminder",
			"task_id":      n.Tag,
			"click_action": "/tasks",
		},
	}

	failedTokens, err := f.client.SendToDevices(ctx, tokenStrings, msg)
	for _, token := range failedTokens {
		if delErr := f.deviceRepo.DeleteToken(token); delErr != nil {
			log.Printf("[Notification] Failed to prune rejected token: %v", delErr)
		}
	}
	if err != nil {
		return err
	}

	log.Printf("[Notification] Sent %s to %d devices for user %s", n.Tag, len(tokenStrings)-len(failedTokens), userID)
	return nil
}
