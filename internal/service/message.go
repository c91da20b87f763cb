package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// ErrSelfMessage is returned when a user messages themselves.
var ErrSelfMessage = errors.New("cannot message yourself")

type MessageService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewMessageService(db *gorm.DB, notifications *NotificationService) *MessageService {
	return &MessageService{db: db, notifications: notifications}
}

// SendMessage stores a direct message and notifies the recipient.
func (s *MessageService) SendMessage(ctx context.Context, senderID, recipientID uuid.UUID, body string) (*models.Message, error) {
	if senderID == recipientID {
		return nil, ErrSelfMessage
	}

	var recipient models.User
	if err := s.db.WithContext(ctx).First(&recipient, "id = ?", recipientID).Error; err != nil {
		return nil, err
	}

	message := models.Message{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
	}
	if err := s.db.WithContext(ctx).Create(&message).Error; err != nil {
		return nil, err
	}

	s.notifications.Notify(ctx, recipientID, senderID, models.NotificationNewMessage, message.ID, "sent you a message")
	return &message, nil
}

// Conversation returns the messages exchanged between two users in
// chronological order.
func (s *MessageService) Conversation(ctx context.Context, userID, peerID uuid.UUID, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, peerID, peerID, userID).
		Order("created_at ASC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkConversationRead marks every message from peer to user as read.
func (s *MessageService) MarkConversationRead(ctx context.Context, userID, peerID uuid.UUID) error {
	now := time.Now()
	return s.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND read_at IS NULL", peerID, userID).
		Update("read_at", now).Error
}
