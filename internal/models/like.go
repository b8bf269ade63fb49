package models

import "time"

// Like represents a like on a post. One per (post, user) pair.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_post_user"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_post_user"`
	CreatedAt time.Time `json:"created_at"`
}
