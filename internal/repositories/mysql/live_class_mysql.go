package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type LiveClassMySQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewLiveClassMySQL(db *gorm.DB) repositories.LiveClassRepository {
	return &LiveClassMySQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (r *LiveClassMySQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *LiveClassMySQL) Create(ctx context.Context, tx *gorm.DB, class *models.LiveClass) error {
	if err := r.getDB(tx).WithContext(ctx).Create(class).Error; err != nil {
		return fmt.Errorf("failed to create live class: %w", err)
	}
	return nil
}

func (r *LiveClassMySQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.LiveClass, error) {
	var class models.LiveClass
	if err := r.getDB(tx).WithContext(ctx).
		Preload("Creator").
		First(&class, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get live class: %w", err)
	}
	return &class, nil
}

func (r *LiveClassMySQL) List(ctx context.Context, tx *gorm.DB, filters repositories.LiveClassFilters) ([]*models.LiveClass, int64, error) {
	query := r.getDB(tx).WithContext(ctx).Model(&models.LiveClass{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if len(filters.Statuses) > 0 {
		query = query.Where("status IN ?", filters.Statuses)
	}
	if filters.From != nil {
		query = query.Where("starts_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("starts_at <= ?", *filters.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count live classes: %w", err)
	}

	query = r.helpers.ApplySorting(query, filters.SortBy, filters.SortOrder, map[string]bool{
		"created_at": true, "starts_at": true, "title": true,
	})
	query = r.helpers.ApplyPagination(query, filters.Limit, filters.Offset)

	var classes []*models.LiveClass
	if err := query.Find(&classes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list live classes: %w", err)
	}

	return classes, total, nil
}

func (r *LiveClassMySQL) Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error {
	result := r.getDB(tx).WithContext(ctx).
		Model(&models.LiveClass{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update live class: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *LiveClassMySQL) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.LiveClassStatus) error {
	result := r.getDB(tx).WithContext(ctx).
		Model(&models.LiveClass{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update live class status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *LiveClassMySQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	result := r.getDB(tx).WithContext(ctx).Delete(&models.LiveClass{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete live class: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
