package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// NotificationService persists notifications and keeps a per-user unread
// counter in Redis so list pages don't need a COUNT query.
type NotificationService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewNotificationService(db *gorm.DB, redisClient *redis.Client) *NotificationService {
	return &NotificationService{db: db, redis: redisClient}
}

func unreadKey(userID uuid.UUID) string {
	return fmt.Sprintf("notifications:unread:%s", userID)
}

// Notify records a notification for userID. Failures are logged, not
// returned: a broken notification must never fail the action that
// triggered it.
func (s *NotificationService) Notify(ctx context.Context, userID, actorID uuid.UUID, notifType string, subjectID uuid.UUID, body string) {
	if userID == actorID {
		// No self-notifications.
		return
	}

	n := models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		ActorID:   actorID,
		Type:      notifType,
		SubjectID: subjectID,
		Body:      body,
	}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		log.Printf("[NotificationService] failed to store notification for %s: %v", userID, err)
		return
	}

	if s.redis != nil {
		if err := s.redis.Incr(ctx, unreadKey(userID)).Err(); err != nil {
			log.Printf("[NotificationService] failed to bump unread counter for %s: %v", userID, err)
		}
	}
}

// List returns the most recent notifications for a user.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var notifications []models.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// UnreadCount returns the cached unread counter, falling back to a COUNT
// query when Redis has no value.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if s.redis != nil {
		count, err := s.redis.Get(ctx, unreadKey(userID)).Int64()
		if err == nil {
			return count, nil
		}
		if err != redis.Nil {
			log.Printf("[NotificationService] unread counter read failed for %s: %v", userID, err)
		}
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

// MarkRead marks a single notification read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	now := time.Now()
	result := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", notificationID, userID).
		Update("read_at", now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 && s.redis != nil {
		if err := s.redis.Decr(ctx, unreadKey(userID)).Err(); err != nil {
			log.Printf("[NotificationService] failed to decrement unread counter for %s: %v", userID, err)
		}
	}
	return nil
}

// MarkAllRead marks every unread notification for the user read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	if err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", now).Error; err != nil {
		return err
	}
	if s.redis != nil {
		if err := s.redis.Del(ctx, unreadKey(userID)).Err(); err != nil {
			log.Printf("[NotificationService] failed to reset unread counter for %s: %v", userID, err)
		}
	}
	return nil
}
