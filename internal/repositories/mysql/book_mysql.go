package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type BookMySQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewBookMySQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.BookRepository {
	return &BookMySQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
	}
}

func (r *BookMySQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *BookMySQL) Create(ctx context.Context, tx *gorm.DB, book *models.Book) error {
	if err := r.getDB(tx).WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, r.cacheManager.Book, "list:*")
	return nil
}

// GetByID deliberately bypasses the cache: the secure delivery path must
// re-verify the published state on every request, never trust a stale copy.
func (r *BookMySQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Book, error) {
	var book models.Book
	if err := r.getDB(tx).WithContext(ctx).
		Preload("Creator").
		First(&book, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return &book, nil
}

func (r *BookMySQL) List(ctx context.Context, tx *gorm.DB, filters repositories.BookFilters) ([]*models.Book, int64, error) {
	query := r.getDB(tx).WithContext(ctx).Model(&models.Book{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.IsPublished != nil {
		query = query.Where("is_published = ?", *filters.IsPublished)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		query = query.Where("title LIKE ? OR author LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	query = r.helpers.ApplySorting(query, filters.SortBy, filters.SortOrder, map[string]bool{
		"created_at": true, "title": true, "author": true, "price": true,
	})
	query = r.helpers.ApplyPagination(query, filters.Limit, filters.Offset)

	var books []*models.Book
	if err := query.Find(&books).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}

	return books, total, nil
}

func (r *BookMySQL) Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error {
	result := r.getDB(tx).WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateBookCache(ctx, r.cacheManager, id)
	return nil
}

func (r *BookMySQL) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.BookStatus) error {
	result := r.getDB(tx).WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update book status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateBookCache(ctx, r.cacheManager, id)
	return nil
}

func (r *BookMySQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	result := r.getDB(tx).WithContext(ctx).Delete(&models.Book{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateBookCache(ctx, r.cacheManager, id)
	return nil
}
