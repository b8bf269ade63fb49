package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Account status values. Anything other than StatusNormal hides the
// account from regular viewers.
const (
	StatusNormal    = "normal"
	StatusBanned    = "banned"
	StatusSuspended = "suspended"
)

// Account roles. Moderators and admins bypass the banned-account check.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"size:30;uniqueIndex"`
	DisplayName    string    `json:"display_name" gorm:"size:50"`
	Email          string    `json:"email" gorm:"uniqueIndex"`
	Password       string    `json:"-"` // Store hashed password, ignore for JSON serialization
	AvatarURL      string    `json:"avatar_url"`
	Bio            string    `json:"bio" gorm:"size:300"`
	IsPrivate      bool      `json:"is_private" gorm:"default:false"`
	Verified       bool      `json:"verified" gorm:"default:false"`
	Status         string    `json:"status" gorm:"size:20;default:'normal';index"`
	Role           string    `json:"role" gorm:"size:20;default:'user'"`
	FollowersCount int64     `json:"followers_count" gorm:"default:0"`
	FollowingCount int64     `json:"following_count" gorm:"default:0"`
	FirebaseUID    string    `json:"firebase_uid,omitempty" gorm:"index"` // Link to Firebase User UID, optional
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserCompact is the minimal public summary of an account. It is always
// visible unless the viewer is blocked or the account is banned.
type UserCompact struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Verified  bool   `json:"verified"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
		Verified:  u.Verified,
	}
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,max=50"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=300"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	IsPrivate   *bool   `json:"is_private,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
