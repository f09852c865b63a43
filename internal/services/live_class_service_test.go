package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

func newLiveClassFixture(t *testing.T) (*fakeRepository, LiveClassService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := newFakeRepository()
	service := NewLiveClassService(repo, nil, logger, validator.New())
	return repo, service
}

func seedLiveClass(t *testing.T, repo *fakeRepository, title string, status models.LiveClassStatus) *models.LiveClass {
	t.Helper()
	class := &models.LiveClass{
		Title:       title,
		StartsAt:    time.Now().Add(24 * time.Hour),
		DurationMin: 60,
		Status:      status,
		CreatedBy:   1,
	}
	if err := repo.liveClasses.Create(context.Background(), nil, class); err != nil {
		t.Fatalf("seed live class: %v", err)
	}
	return class
}

func TestLiveClassService_ListVisible(t *testing.T) {
	repo, service := newLiveClassFixture(t)
	ctx := context.Background()

	seedLiveClass(t, repo, "Upcoming", models.LiveClassUpcoming)
	seedLiveClass(t, repo, "Live now", models.LiveClassLive)
	seedLiveClass(t, repo, "Over", models.LiveClassEnded)
	seedLiveClass(t, repo, "Called off", models.LiveClassCancelled)

	resp, err := service.ListVisible(ctx, repositories.LiveClassFilters{Limit: 50})
	if err != nil {
		t.Fatalf("ListVisible failed: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("Expected 2 visible classes, got %d", resp.Total)
	}
	for _, class := range resp.LiveClasses {
		if !class.StudentVisible() {
			t.Errorf("Class %q with status %s should not be listed", class.Title, class.Status)
		}
	}

	// Students cannot widen the window by asking for a hidden status.
	ended := models.LiveClassEnded
	resp, err = service.ListVisible(ctx, repositories.LiveClassFilters{Status: &ended, Limit: 50})
	if err != nil {
		t.Fatalf("ListVisible failed: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("Hidden status filter should be ignored, got Total=%d", resp.Total)
	}
}

func TestLiveClassService_ListVisiblePagination(t *testing.T) {
	repo, service := newLiveClassFixture(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		seedLiveClass(t, repo, fmt.Sprintf("Session %d", i+1), models.LiveClassUpcoming)
	}
	seedLiveClass(t, repo, "Over", models.LiveClassEnded)

	// Total must span every visible class, not just the returned page.
	resp, err := service.ListVisible(ctx, repositories.LiveClassFilters{Limit: 20})
	if err != nil {
		t.Fatalf("ListVisible failed: %v", err)
	}
	if len(resp.LiveClasses) != 20 {
		t.Errorf("Expected a page of 20, got %d", len(resp.LiveClasses))
	}
	if resp.Total != 25 {
		t.Errorf("Expected Total=25 across pages, got %d", resp.Total)
	}

	resp, err = service.ListVisible(ctx, repositories.LiveClassFilters{Limit: 20, Offset: 20})
	if err != nil {
		t.Fatalf("ListVisible failed: %v", err)
	}
	if len(resp.LiveClasses) != 5 {
		t.Errorf("Expected 5 classes on the second page, got %d", len(resp.LiveClasses))
	}
	if resp.Total != 25 {
		t.Errorf("Expected Total=25 on the second page, got %d", resp.Total)
	}
}
