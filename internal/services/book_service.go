package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

type bookService struct {
	repo      repositories.Repository
	db        *gorm.DB
	cache     *cache.CacheManager
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewBookService(
	repo repositories.Repository,
	db *gorm.DB,
	cacheManager *cache.CacheManager,
	publisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
) BookService {
	return &bookService{
		repo:      repo,
		db:        db,
		cache:     cacheManager,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *bookService) Create(ctx context.Context, req *BookCreateRequest, creatorID uint) (*models.Book, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	book := &models.Book{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Price:       req.Price,
		Status:      models.BookDraft,
		PdfPath:     req.PdfPath,
		CoverPath:   req.CoverPath,
		CreatedBy:   creatorID,
	}

	if err := s.repo.Book().Create(ctx, nil, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	s.logger.Info("book created", "book_id", book.ID, "creator_id", creatorID)
	return book, nil
}

func (s *bookService) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	book, err := s.repo.Book().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to load book: %w", err)
	}
	return book, nil
}

func (s *bookService) List(ctx context.Context, filters repositories.BookFilters) (*BookListResponse, error) {
	books, total, err := s.repo.Book().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	return &BookListResponse{
		Books:  books,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	}, nil
}

// ListAvailable is the student-facing catalog: published status AND the
// availability flag, both forced server-side.
func (s *bookService) ListAvailable(ctx context.Context, filters repositories.BookFilters) (*BookListResponse, error) {
	published := models.BookPublished
	isPublished := true
	filters.Status = &published
	filters.IsPublished = &isPublished
	return s.List(ctx, filters)
}

func (s *bookService) Update(ctx context.Context, id uint, req *BookUpdateRequest) (*models.Book, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Author != nil {
		updates["author"] = *req.Author
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.PdfPath != nil {
		updates["pdf_path"] = *req.PdfPath
	}
	if req.CoverPath != nil {
		updates["cover_path"] = *req.CoverPath
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}

	if len(updates) > 0 {
		if err := s.repo.Book().Update(ctx, nil, id, updates); err != nil {
			return nil, fmt.Errorf("failed to update book: %w", err)
		}
		cache.InvalidateBookCache(ctx, s.cache, id)
	}

	return s.GetByID(ctx, id)
}

func (s *bookService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Book, error) {
	if errs := s.validator.GetBusinessValidator().ValidateBookStatus(status); len(errs) > 0 {
		return nil, errs
	}

	book, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus := models.BookStatus(status)
	if book.Status == newStatus {
		return book, nil
	}

	if err := s.repo.Book().UpdateStatus(ctx, nil, id, newStatus); err != nil {
		return nil, fmt.Errorf("failed to update book status: %w", err)
	}
	cache.InvalidateBookCache(ctx, s.cache, id)

	if newStatus == models.BookPublished {
		event := events.NewEvent(events.TypeBookPublished, map[string]interface{}{
			"book_id": id,
			"title":   book.Title,
		})
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish book event", "error", err, "book_id", id)
		}
	}

	s.logger.Info("book status updated", "book_id", id, "status", status)
	return s.GetByID(ctx, id)
}

func (s *bookService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Book().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	cache.InvalidateBookCache(ctx, s.cache, id)

	s.logger.Info("book deleted", "book_id", id)
	return nil
}
