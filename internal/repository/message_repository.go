package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"teamboard/internal/model"
)

// MessageRepository defines direct message persistence operations.
type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	Conversation(ctx context.Context, userA, userB uint) ([]model.Message, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
	MarkRead(ctx context.Context, id, recipientID uint, at time.Time) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Omit("Sender", "Recipient").Create(message).Error
}

// Conversation returns messages exchanged between two users, oldest first.
func (r *messageRepository) Conversation(ctx context.Context, userA, userB uint) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", userA, userB, userB, userA).
		Order("created_at, id").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Count(&count).Error
	return count, err
}

// MarkRead sets read_at on a message addressed to recipientID. Already read
// messages keep their original timestamp but still count as matched.
func (r *messageRepository) MarkRead(ctx context.Context, id, recipientID uint, at time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Message{}).Where("id = ? AND recipient_id = ?", id, recipientID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		return tx.Model(&model.Message{}).
			Where("id = ? AND read_at IS NULL", id).
			Update("read_at", at).Error
	})
	return count, err
}
