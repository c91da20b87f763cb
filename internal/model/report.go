package model

import (
	"time"

	"github.com/google/uuid"
)

// Report target types
const (
	ReportTargetRecipe  = "recipe"
	ReportTargetComment = "comment"
	ReportTargetUser    = "user"
)

// Report statuses
const (
	ReportStatusOpen     = "open"
	ReportStatusResolved = "resolved"
	ReportStatusRejected = "rejected"
)

// Report is an abuse report filed by a user against a recipe, a comment
// or another user.
type Report struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ReporterID uuid.UUID `gorm:"type:uuid;not null;index" json:"reporter_id"`
	TargetType string    `gorm:"size:20;not null" json:"target_type"`
	TargetID   uuid.UUID `gorm:"type:uuid;not null;index" json:"target_id"`
	Reason     string    `gorm:"type:text;not null" json:"reason"`
	Status     string    `gorm:"size:20;not null;default:'open'" json:"status"`
}
