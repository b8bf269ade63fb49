package models

import "time"

// Notification types.
const (
	NotifFollowRequest  = "follow_request"
	NotifFollowAccept   = "follow_accept"
	NotifComment        = "comment"
	NotifLike           = "like"
	NotifMention        = "mention"
	NotifReportResolved = "report_resolved"
)

// Notification represents a user notification (PostgreSQL). Rows are
// immutable after creation except for the read flag and the timestamp
// refresh applied when repeated like events collapse into one row.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"`
	ActorID     uint      `json:"actor_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	TargetID    string    `json:"target_id"`                  // post ID, comment ID, etc.
	TargetType  string    `json:"target_type" gorm:"size:20"` // post, comment, user, report
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
