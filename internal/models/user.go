package models

import (
	"time"

	"github.com/lib/pq"
)

// User is the reference row for an identity. Profiles, credentials and all
// account management live in the profile service; this backend only needs a
// stable numeric ID plus the display fields that show up in notifications.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:150" json:"username"`
	FirstName string         `gorm:"size:150" json:"first_name"`
	Interests pq.StringArray `gorm:"type:text[]" json:"interests"`
	CreatedAt time.Time      `json:"created_at"`
}

// DisplayName is what notification texts address the user by.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}
