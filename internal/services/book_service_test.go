package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

func newBookFixture(t *testing.T) (*fakeRepository, BookService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := newFakeRepository()
	publisher := events.NewMockEventPublisher(logger)
	service := NewBookService(repo, nil, cache.NewCacheManager(nil), publisher, logger, validator.New())
	return repo, service
}

func TestBookService_ListAvailable(t *testing.T) {
	repo, service := newBookFixture(t)
	ctx := context.Background()

	seedBook(t, repo, models.BookDraft, false, "books/draft.pdf")
	seedBook(t, repo, models.BookPublished, false, "books/unavailable.pdf")
	seedBook(t, repo, models.BookArchived, true, "books/archived.pdf")
	servable := seedBook(t, repo, models.BookPublished, true, "books/intro.pdf")

	resp, err := service.ListAvailable(ctx, repositories.BookFilters{Limit: 50})
	if err != nil {
		t.Fatalf("ListAvailable failed: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("Expected only the servable book, got %d", resp.Total)
	}
	if resp.Books[0].ID != servable.ID {
		t.Errorf("Expected book %d in the catalog, got %d", servable.ID, resp.Books[0].ID)
	}

	// Client-supplied filters cannot widen the catalog to drafts.
	draft := models.BookDraft
	resp, err = service.ListAvailable(ctx, repositories.BookFilters{Status: &draft, Limit: 50})
	if err != nil {
		t.Fatalf("ListAvailable failed: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("Draft filter should be overridden server-side, got %d", resp.Total)
	}
}
