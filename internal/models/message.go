package models

import "time"

// Message is one persisted chat message between two users. Rows are
// append-only; after creation only IsRead ever changes. Conversation order
// is (created_at, id) ascending; the id breaks ties between messages
// written inside the same timestamp tick.
type Message struct {
	ID         uint      `gorm:"primaryKey"`
	SenderID   uint      `gorm:"not null;index:idx_msg_pair,priority:1"`
	ReceiverID uint      `gorm:"not null;index:idx_msg_pair,priority:2"`
	Content    string    `gorm:"type:text;not null"`
	IsRead     bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"index"`
}

// ClockTime renders the message timestamp the way clients display it.
func (m *Message) ClockTime() string {
	return m.CreatedAt.Local().Format("15:04")
}
