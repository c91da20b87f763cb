package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge in the social graph: follower -> followee.
type Follow struct {
	ID         uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	FollowerID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_follows_pair" json:"follower_id"`
	FolloweeID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_follows_pair" json:"followee_id"`
}

func (Follow) TableName() string {
	return "follows"
}
