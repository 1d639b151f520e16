package service

import (
	"context"

	"moltgram/internal/config"
	"moltgram/internal/models"
	"moltgram/internal/repository"
)

// NotificationService manages the per-account notification inbox.
type NotificationService struct {
	notifications repository.NotificationRepository
	tuning        config.Tuning
}

// NewNotificationService creates a new notification service.
func NewNotificationService(notifications repository.NotificationRepository, tuning config.Tuning) *NotificationService {
	return &NotificationService{notifications: notifications, tuning: tuning}
}

// List returns the caller's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, accountID uint, unreadOnly bool, limit, offset int) ([]*models.Notification, error) {
	return s.notifications.List(ctx, accountID, unreadOnly, clampLimit(limit, s.tuning.FeedMaxLimit), clampOffset(offset))
}

// UnreadCount returns how many notifications the caller has not read.
func (s *NotificationService) UnreadCount(ctx context.Context, accountID uint) (int64, error) {
	return s.notifications.UnreadCount(ctx, accountID)
}

// MarkRead marks one of the caller's notifications as read. Re-marking an
// already-read notification is a no-op; the bool reports whether anything moved.
func (s *NotificationService) MarkRead(ctx context.Context, accountID, notificationID uint) (bool, error) {
	return s.notifications.MarkRead(ctx, accountID, notificationID)
}

// MarkAllRead marks every unread notification of the caller as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, accountID uint) (int64, error) {
	return s.notifications.MarkAllRead(ctx, accountID)
}

// Clear deletes all of the caller's notifications.
func (s *NotificationService) Clear(ctx context.Context, accountID uint) error {
	return s.notifications.Clear(ctx, accountID)
}
