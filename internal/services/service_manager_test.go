package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

func TestServiceManager_Lifecycle(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := newFakeRepository()

	manager := NewServiceManager(
		nil,
		repo,
		cache.NewCacheManager(nil),
		newNoopPublisher(logger),
		newTestMailSender(logger),
		logger,
		validator.New(),
		ServiceManagerConfig{
			Auth: AuthConfig{
				JWTSecret:       "test-secret",
				JWTIssuer:       "learning-service",
				AccessTokenTTL:  15 * time.Minute,
				RefreshTokenTTL: 7 * 24 * time.Hour,
				VerifyTokenTTL:  24 * time.Hour,
				ResetTokenTTL:   time.Hour,
			},
			Content: ContentConfig{ContentDir: t.TempDir()},
		},
	)

	ctx := context.Background()

	t.Run("getter panics before initialization", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Expected panic when accessing an uninitialized manager")
			}
		}()
		manager.Auth()
	})

	if err := manager.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	// Repeated initialization is a no-op.
	if err := manager.Initialize(ctx); err != nil {
		t.Fatalf("Re-initialize failed: %v", err)
	}

	for name, get := range map[string]func() interface{}{
		"auth":         func() interface{} { return manager.Auth() },
		"user":         func() interface{} { return manager.User() },
		"course":       func() interface{} { return manager.Course() },
		"book":         func() interface{} { return manager.Book() },
		"live_class":   func() interface{} { return manager.LiveClass() },
		"enrollment":   func() interface{} { return manager.Enrollment() },
		"notification": func() interface{} { return manager.Notification() },
		"content":      func() interface{} { return manager.Content() },
		"analytics":    func() interface{} { return manager.Analytics() },
	} {
		if get() == nil {
			t.Errorf("%s service should be available after initialization", name)
		}
	}

	if err := manager.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}

	if err := manager.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if err := manager.Shutdown(ctx); err != nil {
		t.Fatalf("Repeated shutdown failed: %v", err)
	}
	if err := manager.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck should fail after shutdown")
	}
}
