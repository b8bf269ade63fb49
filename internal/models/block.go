package models

import "time"

// Block represents a directed block. A block in either direction makes
// both accounts invisible to each other regardless of follow state, and
// creating one removes any follow edge between the two parties.
type Block struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BlockerID uint      `json:"blocker_id" gorm:"index;uniqueIndex:idx_blocker_blocked"`
	BlockedID uint      `json:"blocked_id" gorm:"index;uniqueIndex:idx_blocker_blocked"`
	CreatedAt time.Time `json:"created_at"`
}
