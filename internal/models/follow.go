package models

import "time"

// Follow edge states. An edge starts out pending when the target account
// is private and is created directly as accepted otherwise.
const (
	FollowPending  = "pending"
	FollowAccepted = "accepted"
)

// Follow represents an Instagram-style follow relationship with an
// approval state. The unique index on the ordered pair is the concurrency
// guard against duplicate requests.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"index;uniqueIndex:idx_follower_following"`
	Status      string    `json:"status" gorm:"size:20;default:'pending';index"`
	CreatedAt   time.Time `json:"created_at"`
}
