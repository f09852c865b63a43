package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type EnrollmentMySQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewEnrollmentMySQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &EnrollmentMySQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (r *EnrollmentMySQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create inserts an enrollment. The (user, course) / (user, live class)
// unique indexes surface a duplicate-key error under concurrent identical
// requests; callers translate that into an idempotent re-read.
func (r *EnrollmentMySQL) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	if err := r.getDB(tx).WithContext(ctx).Create(enrollment).Error; err != nil {
		return err
	}
	return nil
}

func (r *EnrollmentMySQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.getDB(tx).WithContext(ctx).
		Preload("Course").
		Preload("LiveClass").
		First(&enrollment, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return &enrollment, nil
}

func (r *EnrollmentMySQL) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.getDB(tx).WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentMySQL) GetByUserAndLiveClass(ctx context.Context, tx *gorm.DB, userID, classID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.getDB(tx).WithContext(ctx).
		Where("user_id = ? AND live_class_id = ?", userID, classID).
		First(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentMySQL) List(ctx context.Context, tx *gorm.DB, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	query := r.getDB(tx).WithContext(ctx).Model(&models.Enrollment{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.LiveClassID != nil {
		query = query.Where("live_class_id = ?", *filters.LiveClassID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count enrollments: %w", err)
	}

	query = r.helpers.ApplySorting(query, filters.SortBy, filters.SortOrder, map[string]bool{
		"created_at": true, "updated_at": true,
	})
	query = r.helpers.ApplyPagination(query, filters.Limit, filters.Offset)

	var enrollments []*models.Enrollment
	if err := query.
		Preload("Course").
		Preload("LiveClass").
		Find(&enrollments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list enrollments: %w", err)
	}

	return enrollments, total, nil
}

func (r *EnrollmentMySQL) Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error {
	result := r.getDB(tx).WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update enrollment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
