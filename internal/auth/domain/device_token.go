package domain

import "time"

// DeviceToken represents a Firebase Cloud Messaging device token used to
// push reminder notifications to one of the user's browsers or devices
type DeviceToken struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"index;not null"`
	Token      string    `json:"-" gorm:"uniqueIndex;not null"` // don't expose token in JSON
	DeviceInfo string    `json:"device_info"`                   // browser/device metadata
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
