package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "teamboard/internal/errors"
	"teamboard/internal/metrics"
	"teamboard/internal/model"
	"teamboard/internal/repository"
)

const messagePreviewLength = 80

// MessageService handles direct messages between users.
type MessageService interface {
	Send(ctx context.Context, senderID, recipientID uint, body string) (*model.Message, error)
	Conversation(ctx context.Context, userID, otherID uint) ([]model.Message, error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, userID, id uint) error
}

type messageService struct {
	repo          repository.MessageRepository
	userRepo      repository.UserRepository
	notifications NotificationService
	metrics       *metrics.Metrics
}

// NewMessageService creates a new message service.
func NewMessageService(
	repo repository.MessageRepository,
	userRepo repository.UserRepository,
	notifications NotificationService,
	m *metrics.Metrics,
) MessageService {
	return &messageService{repo: repo, userRepo: userRepo, notifications: notifications, metrics: m}
}

// Send stores a message and notifies the recipient.
func (s *messageService) Send(ctx context.Context, senderID, recipientID uint, body string) (*model.Message, error) {
	if senderID == recipientID {
		return nil, apperrors.ErrSelfMessage
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.ErrBlankField
	}
	sender, err := s.userRepo.FindByID(ctx, senderID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	if _, err := s.userRepo.FindByID(ctx, recipientID); err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}

	msg := &model.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	s.metrics.IncMessagesSent()

	s.notifications.Notify(ctx, recipientID, model.NotificationMessage,
		fmt.Sprintf("New message from %s", sender.Name), preview(msg.Body))
	return msg, nil
}

func (s *messageService) Conversation(ctx context.Context, userID, otherID uint) ([]model.Message, error) {
	if _, err := s.userRepo.FindByID(ctx, otherID); err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	return s.repo.Conversation(ctx, userID, otherID)
}

func (s *messageService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead marks a message as read. Only the recipient may do so; for anyone
// else the message does not exist.
func (s *messageService) MarkRead(ctx context.Context, userID, id uint) error {
	n, err := s.repo.MarkRead(ctx, id, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	if n == 0 {
		return apperrors.ErrMessageNotFound
	}
	return nil
}

func preview(body string) string {
	runes := []rune(body)
	if len(runes) <= messagePreviewLength {
		return body
	}
	return string(runes[:messagePreviewLength]) + "..."
}
