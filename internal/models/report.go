package models

import "time"

// Report outcomes.
const (
	ReportOpen      = "open"
	ReportUpheld    = "upheld"
	ReportDismissed = "dismissed"
)

// Report represents a moderation report filed against an account or a
// piece of content. Resolving one may change the reported account's
// derived status, so every affected cache key is invalidated on resolve.
type Report struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ReporterID uint      `json:"reporter_id" gorm:"index"`
	SubjectID  uint      `json:"subject_id" gorm:"index"` // reported account
	TargetID   string    `json:"target_id"`               // optional post/comment reference
	TargetType string    `json:"target_type" gorm:"size:20"`
	Reason     string    `json:"reason" gorm:"size:500"`
	Outcome    string    `json:"outcome" gorm:"size:20;default:'open';index"`
	ResolvedBy uint      `json:"resolved_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ResolvedAt time.Time `json:"resolved_at,omitempty"`
}

// CreateReportRequest defines the request body for filing a report
type CreateReportRequest struct {
	SubjectID  uint   `json:"subject_id" validate:"required"`
	TargetID   string `json:"target_id,omitempty"`
	TargetType string `json:"target_type,omitempty" validate:"omitempty,oneof=post comment user"`
	Reason     string `json:"reason" validate:"required,min=3,max=500"`
}

// ResolveReportRequest defines the request body for resolving a report
type ResolveReportRequest struct {
	Outcome  string `json:"outcome" validate:"required,oneof=upheld dismissed"`
	BanUser  bool   `json:"ban_user,omitempty"`
	Unverify bool   `json:"unverify,omitempty"`
}
