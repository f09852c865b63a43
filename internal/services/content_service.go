package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

// ContentConfig locates protected files on disk.
type ContentConfig struct {
	ContentDir string
}

type contentService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
	config ContentConfig
}

func NewContentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, config ContentConfig) ContentService {
	return &contentService{
		repo:   repo,
		db:     db,
		logger: logger,
		config: config,
	}
}

// GetSecurePdf resolves the protected PDF for a servable book. The book
// row is read fresh on every call so an unpublish takes effect
// immediately, not at cache expiry.
func (s *contentService) GetSecurePdf(ctx context.Context, userID, bookID uint) (*ContentFile, error) {
	book, err := s.loadServable(ctx, bookID)
	if err != nil {
		return nil, err
	}

	path, err := s.resolvePath(book.PdfPath)
	if err != nil {
		return nil, err
	}

	s.logger.Info("secure pdf access", "user_id", userID, "book_id", bookID)

	return &ContentFile{
		Path:        path,
		ContentType: "application/pdf",
		Filename:    fmt.Sprintf("book-%d.pdf", bookID),
	}, nil
}

// GetCover serves the public cover image, or a generated placeholder when
// the book has none.
func (s *contentService) GetCover(ctx context.Context, bookID uint) (*ContentFile, error) {
	book, err := s.loadServable(ctx, bookID)
	if err != nil {
		return nil, err
	}

	// A missing cover, whether an empty path or a file that was never
	// uploaded, degrades to the placeholder. Only the PDF path 404s.
	if book.CoverPath == nil || *book.CoverPath == "" {
		return &ContentFile{
			Data:        placeholderCover(),
			ContentType: "image/png",
			Filename:    fmt.Sprintf("cover-%d.png", bookID),
		}, nil
	}

	path, err := s.resolvePath(*book.CoverPath)
	if err != nil {
		s.logger.Warn("cover file missing, serving placeholder", "book_id", bookID, "cover_path", *book.CoverPath)
		return &ContentFile{
			Data:        placeholderCover(),
			ContentType: "image/png",
			Filename:    fmt.Sprintf("cover-%d.png", bookID),
		}, nil
	}

	return &ContentFile{
		Path:        path,
		ContentType: contentTypeForExt(path),
		Filename:    filepath.Base(path),
	}, nil
}

// loadServable treats unpublished and missing books identically so the
// public surface cannot distinguish them.
func (s *contentService) loadServable(ctx context.Context, bookID uint) (*models.Book, error) {
	book, err := s.repo.Book().GetByID(ctx, nil, bookID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to load book: %w", err)
	}
	if !book.Servable() {
		return nil, ErrBookNotFound
	}
	return book, nil
}

// resolvePath confines the stored path to the content directory and
// requires the file to exist.
func (s *contentService) resolvePath(stored string) (string, error) {
	cleaned := filepath.Clean("/" + stored)
	full := filepath.Join(s.config.ContentDir, cleaned)

	base := filepath.Clean(s.config.ContentDir)
	if !strings.HasPrefix(full, base+string(os.PathSeparator)) {
		return "", ErrContentNotFound
	}

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", ErrContentNotFound
	}

	return full, nil
}

func contentTypeForExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

var (
	placeholderOnce sync.Once
	placeholderPNG  []byte
)

// placeholderCover renders a flat gray cover once and reuses the bytes.
func placeholderCover() []byte {
	placeholderOnce.Do(func() {
		img := image.NewRGBA(image.Rect(0, 0, 200, 280))
		gray := color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
		for y := 0; y < 280; y++ {
			for x := 0; x < 200; x++ {
				img.Set(x, y, gray)
			}
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			// Cannot fail for an in-memory RGBA image.
			return
		}
		placeholderPNG = buf.Bytes()
	})
	return placeholderPNG
}
