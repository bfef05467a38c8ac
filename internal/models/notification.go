package models

import "time"

// Notification kinds. The values match what the inbox UI switches on.
const (
	NotificationLike    = "LIKE"
	NotificationMessage = "MESSAGE"
)

// Notification is a lightweight event addressed to a user. The chat core
// only ever appends these; reading and clearing them is the inbox's job.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecipientID uint      `gorm:"not null;index" json:"recipient_id"`
	SenderID    *uint     `json:"sender_id,omitempty"`
	Kind        string    `gorm:"size:10;not null" json:"kind"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	IsRead      bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
