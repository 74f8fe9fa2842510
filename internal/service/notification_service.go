package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "teamboard/internal/errors"
	"teamboard/internal/model"
	"teamboard/internal/repository"
)

// NotificationService delivers and manages in-app notifications.
type NotificationService interface {
	// Notify stores a notification for userID. Failures are logged, never returned.
	Notify(ctx context.Context, userID uint, kind model.NotificationType, title, body string)
	List(ctx context.Context, userID uint, unreadOnly bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID, id uint) error
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
}

type notificationService struct {
	repo   repository.NotificationRepository
	logger *zap.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(repo repository.NotificationRepository, logger *zap.Logger) NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &notificationService{repo: repo, logger: logger.Named("notifications")}
}

func (s *notificationService) Notify(ctx context.Context, userID uint, kind model.NotificationType, title, body string) {
	n := &model.Notification{
		UserID: userID,
		Type:   kind,
		Title:  title,
		Body:   body,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Warn("store notification",
			zap.Uint("user_id", userID),
			zap.String("type", string(kind)),
			zap.Error(err),
		)
	}
}

func (s *notificationService) List(ctx context.Context, userID uint, unreadOnly bool) ([]model.Notification, error) {
	notifications, err := s.repo.ListForUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks the caller's notification as read. Someone else's
// notification is reported as not found.
func (s *notificationService) MarkRead(ctx context.Context, userID, id uint) error {
	n, err := s.repo.MarkRead(ctx, id, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if n == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return n, nil
}
