package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
)

func TestNotificationService_Notify(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	mockPublisher := events.NewMockEventPublisher(logger)
	repo := newFakeRepository()

	service := NewNotificationService(repo, nil, mockPublisher, logger)
	ctx := context.Background()

	t.Run("creates row and publishes event", func(t *testing.T) {
		mockPublisher.ClearEvents()

		err := service.Notify(ctx, 42, models.NotificationEnrollmentActive,
			"Enrollment active", "Your enrollment is now active.",
			map[string]interface{}{"enrollment_id": uint(7)})
		if err != nil {
			t.Fatalf("Notify failed: %v", err)
		}

		resp, err := service.ListMine(ctx, 42, listAllNotifications())
		if err != nil {
			t.Fatalf("ListMine failed: %v", err)
		}
		if len(resp.Notifications) != 1 {
			t.Fatalf("Expected 1 notification, got %d", len(resp.Notifications))
		}
		if resp.UnreadCount != 1 {
			t.Errorf("Expected unread count 1, got %d", resp.UnreadCount)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}
		if published[0].Type != string(models.NotificationEnrollmentActive) {
			t.Errorf("Expected event type %q, got %q", models.NotificationEnrollmentActive, published[0].Type)
		}
	})

	t.Run("event structure", func(t *testing.T) {
		mockPublisher.ClearEvents()

		if err := service.Notify(ctx, 1, models.NotificationWelcome, "Welcome!", "Hello", nil); err != nil {
			t.Fatalf("Notify failed: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}

		event := published[0]
		if event.ID == "" {
			t.Error("Event ID should not be empty")
		}
		if event.Source != "learning-service" {
			t.Errorf("Expected source 'learning-service', got '%s'", event.Source)
		}
		if event.Version != "1.0" {
			t.Errorf("Expected version '1.0', got '%s'", event.Version)
		}
		if event.Timestamp.IsZero() {
			t.Error("Event timestamp should not be zero")
		}
	})

	t.Run("mark read is owner scoped", func(t *testing.T) {
		if err := service.Notify(ctx, 5, models.NotificationWelcome, "Welcome!", "Hello", nil); err != nil {
			t.Fatalf("Notify failed: %v", err)
		}

		resp, err := service.ListMine(ctx, 5, listAllNotifications())
		if err != nil {
			t.Fatalf("ListMine failed: %v", err)
		}
		id := resp.Notifications[0].ID

		// Another user cannot touch it.
		if err := service.MarkRead(ctx, 6, id); err != ErrNotificationNotFound {
			t.Errorf("Expected ErrNotificationNotFound for foreign user, got %v", err)
		}

		if err := service.MarkRead(ctx, 5, id); err != nil {
			t.Fatalf("MarkRead failed: %v", err)
		}

		resp, err = service.ListMine(ctx, 5, listAllNotifications())
		if err != nil {
			t.Fatalf("ListMine failed: %v", err)
		}
		if resp.UnreadCount != 0 {
			t.Errorf("Expected unread count 0 after mark read, got %d", resp.UnreadCount)
		}
	})
}
