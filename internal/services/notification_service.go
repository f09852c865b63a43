package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type notificationService struct {
	repo      repositories.Repository
	db        *gorm.DB
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewNotificationService(repo repositories.Repository, db *gorm.DB, publisher events.EventPublisher, logger *slog.Logger) NotificationService {
	return &notificationService{
		repo:      repo,
		db:        db,
		publisher: publisher,
		logger:    logger,
	}
}

// Notify persists an in-app notification and mirrors it onto the event
// bus. The notification type doubles as the event type.
func (s *notificationService) Notify(ctx context.Context, userID uint, nType models.NotificationType, title, message string, data interface{}) error {
	notification := &models.Notification{
		UserID:  userID,
		Type:    nType,
		Title:   title,
		Message: message,
	}

	if err := s.repo.Notification().Create(ctx, nil, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	payload := map[string]interface{}{
		"notification_id": notification.ID,
		"user_id":         userID,
		"title":           title,
		"message":         message,
	}
	if data != nil {
		payload["data"] = data
	}

	event := events.NewEvent(string(nType), payload)
	if err := s.publisher.Publish(ctx, event); err != nil {
		// The in-app notification already exists; the bus copy is best effort.
		s.logger.Error("failed to publish notification event",
			"error", err, "notification_id", notification.ID, "type", nType)
	}

	return nil
}

func (s *notificationService) ListMine(ctx context.Context, userID uint, filters repositories.NotificationFilters) (*NotificationListResponse, error) {
	notifications, total, err := s.repo.Notification().ListByUser(ctx, nil, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.repo.Notification().CountUnread(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return &NotificationListResponse{
		Notifications: notifications,
		Total:         total,
		UnreadCount:   unread,
		Limit:         filters.Limit,
		Offset:        filters.Offset,
	}, nil
}

// MarkRead only touches rows owned by userID; a foreign id reads as not
// found rather than forbidden, so ids cannot be probed.
func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	if err := s.repo.Notification().MarkRead(ctx, nil, notificationID, userID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint) error {
	if err := s.repo.Notification().MarkAllRead(ctx, nil, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
