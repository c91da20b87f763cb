package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types
const (
	NotificationNewFollower   = "new_follower"
	NotificationRecipeComment = "recipe_comment"
	NotificationRecipeStar    = "recipe_star"
	NotificationNewMessage    = "new_message"
)

type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ActorID   uuid.UUID  `gorm:"type:uuid;not null" json:"actor_id"`
	Type      string     `gorm:"size:30;not null" json:"type"`
	SubjectID uuid.UUID  `gorm:"type:uuid" json:"subject_id"`
	Body      string     `gorm:"type:text" json:"body"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}
