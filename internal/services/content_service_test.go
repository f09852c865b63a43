package services

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

func newContentFixture(t *testing.T) (*fakeRepository, ContentService, string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := newFakeRepository()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "books"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "books", "intro.pdf"), []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}

	service := NewContentService(repo, nil, logger, ContentConfig{ContentDir: dir})
	return repo, service, dir
}

func seedBook(t *testing.T, repo *fakeRepository, status models.BookStatus, isPublished bool, pdfPath string) *models.Book {
	t.Helper()
	book := &models.Book{
		Title:       "Intro to Go",
		Author:      "A. Author",
		Status:      status,
		IsPublished: isPublished,
		PdfPath:     pdfPath,
		CreatedBy:   1,
	}
	if err := repo.books.Create(context.Background(), nil, book); err != nil {
		t.Fatalf("seed book: %v", err)
	}
	return book
}

func TestContentService_GetSecurePdf(t *testing.T) {
	repo, service, dir := newContentFixture(t)
	ctx := context.Background()

	t.Run("servable book", func(t *testing.T) {
		book := seedBook(t, repo, models.BookPublished, true, "books/intro.pdf")

		file, err := service.GetSecurePdf(ctx, 1, book.ID)
		if err != nil {
			t.Fatalf("GetSecurePdf failed: %v", err)
		}
		if file.ContentType != "application/pdf" {
			t.Errorf("Expected pdf content type, got %s", file.ContentType)
		}
		if file.Path != filepath.Join(dir, "books", "intro.pdf") {
			t.Errorf("Unexpected resolved path %s", file.Path)
		}
	})

	t.Run("draft book reads as missing", func(t *testing.T) {
		book := seedBook(t, repo, models.BookDraft, false, "books/intro.pdf")

		if _, err := service.GetSecurePdf(ctx, 1, book.ID); err != ErrBookNotFound {
			t.Errorf("Expected ErrBookNotFound for draft book, got %v", err)
		}
	})

	t.Run("published but unavailable reads as missing", func(t *testing.T) {
		book := seedBook(t, repo, models.BookPublished, false, "books/intro.pdf")

		if _, err := service.GetSecurePdf(ctx, 1, book.ID); err != ErrBookNotFound {
			t.Errorf("Expected ErrBookNotFound for unavailable book, got %v", err)
		}
	})

	t.Run("unknown book", func(t *testing.T) {
		if _, err := service.GetSecurePdf(ctx, 1, 9999); err != ErrBookNotFound {
			t.Errorf("Expected ErrBookNotFound, got %v", err)
		}
	})

	t.Run("stored path cannot escape the content dir", func(t *testing.T) {
		outside := filepath.Join(filepath.Dir(dir), "outside.pdf")
		if err := os.WriteFile(outside, []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatalf("write outside file: %v", err)
		}
		book := seedBook(t, repo, models.BookPublished, true, "../outside.pdf")

		if _, err := service.GetSecurePdf(ctx, 1, book.ID); err != ErrContentNotFound {
			t.Errorf("Expected ErrContentNotFound for traversal path, got %v", err)
		}
	})
}

func TestContentService_GetCover(t *testing.T) {
	repo, service, dir := newContentFixture(t)
	ctx := context.Background()

	t.Run("placeholder when no cover", func(t *testing.T) {
		book := seedBook(t, repo, models.BookPublished, true, "books/intro.pdf")

		file, err := service.GetCover(ctx, book.ID)
		if err != nil {
			t.Fatalf("GetCover failed: %v", err)
		}
		if file.ContentType != "image/png" {
			t.Errorf("Expected png placeholder, got %s", file.ContentType)
		}
		if !bytes.HasPrefix(file.Data, []byte("\x89PNG")) {
			t.Error("Placeholder should be a PNG image")
		}
	})

	t.Run("real cover file", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "books", "cover.jpg"), []byte{0xFF, 0xD8}, 0o644); err != nil {
			t.Fatalf("write cover: %v", err)
		}
		cover := "books/cover.jpg"
		book := seedBook(t, repo, models.BookPublished, true, "books/intro.pdf")
		book.CoverPath = &cover
		repo.books.byID[book.ID].CoverPath = &cover

		file, err := service.GetCover(ctx, book.ID)
		if err != nil {
			t.Fatalf("GetCover failed: %v", err)
		}
		if file.ContentType != "image/jpeg" {
			t.Errorf("Expected jpeg content type, got %s", file.ContentType)
		}
	})

	t.Run("placeholder when cover file is missing", func(t *testing.T) {
		cover := "books/never-uploaded.png"
		book := seedBook(t, repo, models.BookPublished, true, "books/intro.pdf")
		repo.books.byID[book.ID].CoverPath = &cover

		file, err := service.GetCover(ctx, book.ID)
		if err != nil {
			t.Fatalf("GetCover failed: %v", err)
		}
		if !bytes.HasPrefix(file.Data, []byte("\x89PNG")) {
			t.Error("Missing cover file should degrade to the PNG placeholder")
		}
	})

	t.Run("draft book has no public cover", func(t *testing.T) {
		book := seedBook(t, repo, models.BookDraft, false, "books/intro.pdf")

		if _, err := service.GetCover(ctx, book.ID); err != ErrBookNotFound {
			t.Errorf("Expected ErrBookNotFound, got %v", err)
		}
	})
}
