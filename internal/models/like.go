package models

import "time"

// Like is a directed interest edge. The composite unique index makes
// duplicate creation a storage-level no-op, so two concurrent inserts for
// the same pair can never produce two edges. Mutual interest between A and
// B holds iff both (A→B) and (B→A) rows exist.
type Like struct {
	ID         uint      `gorm:"primaryKey"`
	UserFromID uint      `gorm:"not null;uniqueIndex:idx_like_pair,priority:1"`
	UserToID   uint      `gorm:"not null;uniqueIndex:idx_like_pair,priority:2;index"`
	CreatedAt  time.Time
}
