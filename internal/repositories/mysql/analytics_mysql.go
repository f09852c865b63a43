package mysql

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type analyticsMySQL struct {
	db *gorm.DB
}

func NewAnalyticsMySQL(db *gorm.DB) repositories.AnalyticsRepository {
	return &analyticsMySQL{db: db}
}

func (r *analyticsMySQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// ===== OVERVIEW =====

func (r *analyticsMySQL) GetOverviewCounts(ctx context.Context, tx *gorm.DB, activeDays int) (*repositories.OverviewCounts, error) {
	db := r.getDB(tx)
	counts := &repositories.OverviewCounts{}

	if err := db.WithContext(ctx).Model(&models.User{}).Count(&counts.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.WithContext(ctx).Model(&models.Course{}).Count(&counts.TotalCourses).Error; err != nil {
		return nil, fmt.Errorf("failed to count courses: %w", err)
	}
	if err := db.WithContext(ctx).Model(&models.Book{}).Count(&counts.TotalBooks).Error; err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}
	if err := db.WithContext(ctx).Model(&models.LiveClass{}).Count(&counts.TotalLiveClasses).Error; err != nil {
		return nil, fmt.Errorf("failed to count live classes: %w", err)
	}
	if err := db.WithContext(ctx).Model(&models.Enrollment{}).Count(&counts.TotalEnrollments).Error; err != nil {
		return nil, fmt.Errorf("failed to count enrollments: %w", err)
	}

	startDate := time.Now().AddDate(0, 0, -activeDays)
	if err := db.WithContext(ctx).
		Model(&models.User{}).
		Where("last_login_at >= ?", startDate).
		Count(&counts.ActiveUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}

	return counts, nil
}

// ===== USER ANALYTICS =====

func (r *analyticsMySQL) GetRegistrationTrend(ctx context.Context, tx *gorm.DB, days int) ([]repositories.TrendPoint, error) {
	db := r.getDB(tx)
	startDate := time.Now().AddDate(0, 0, -days)

	var points []repositories.TrendPoint
	if err := db.WithContext(ctx).
		Model(&models.User{}).
		Select("DATE_FORMAT(created_at, '%Y-%m-%d') AS period, COUNT(*) AS count").
		Where("created_at >= ?", startDate).
		Group("period").
		Order("period ASC").
		Scan(&points).Error; err != nil {
		return nil, fmt.Errorf("failed to get registration trend: %w", err)
	}

	if points == nil {
		points = []repositories.TrendPoint{}
	}
	return points, nil
}

func (r *analyticsMySQL) GetUsersByRole(ctx context.Context, tx *gorm.DB) ([]repositories.RoleCount, error) {
	db := r.getDB(tx)

	var counts []repositories.RoleCount
	if err := db.WithContext(ctx).
		Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to get users by role: %w", err)
	}

	if counts == nil {
		counts = []repositories.RoleCount{}
	}
	return counts, nil
}

func (r *analyticsMySQL) GetUsersByStatus(ctx context.Context, tx *gorm.DB) ([]repositories.StatusCount, error) {
	db := r.getDB(tx)

	var counts []repositories.StatusCount
	if err := db.WithContext(ctx).
		Model(&models.User{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to get users by status: %w", err)
	}

	if counts == nil {
		counts = []repositories.StatusCount{}
	}
	return counts, nil
}

// ===== COURSE ANALYTICS =====

func (r *analyticsMySQL) GetCourseEnrollmentStats(ctx context.Context, tx *gorm.DB, limit int) ([]repositories.CourseEnrollmentStat, error) {
	db := r.getDB(tx)
	if limit <= 0 {
		limit = 10
	}

	var stats []repositories.CourseEnrollmentStat
	if err := db.WithContext(ctx).
		Model(&models.Course{}).
		Select(`courses.id AS course_id,
			courses.title AS title,
			COUNT(enrollments.id) AS enrollments,
			SUM(CASE WHEN enrollments.status = 'completed' THEN 1 ELSE 0 END) AS completed,
			COALESCE(SUM(CASE WHEN enrollments.status IN ('active', 'completed') THEN courses.price ELSE 0 END), 0) AS revenue`).
		Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id").
		Group("courses.id, courses.title").
		Order("enrollments DESC").
		Limit(limit).
		Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to get course enrollment stats: %w", err)
	}

	if stats == nil {
		stats = []repositories.CourseEnrollmentStat{}
	}
	return stats, nil
}

func (r *analyticsMySQL) GetEnrollmentsByStatus(ctx context.Context, tx *gorm.DB) ([]repositories.StatusCount, error) {
	db := r.getDB(tx)

	var counts []repositories.StatusCount
	if err := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to get enrollments by status: %w", err)
	}

	if counts == nil {
		counts = []repositories.StatusCount{}
	}
	return counts, nil
}

// ===== REVENUE =====

func (r *analyticsMySQL) GetTotalRevenue(ctx context.Context, tx *gorm.DB) (float64, error) {
	db := r.getDB(tx)

	var total *float64
	if err := db.WithContext(ctx).
		Model(&models.PaymentTransaction{}).
		Select("SUM(amount)").
		Where("status = ?", models.PaymentPaid).
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to get total revenue: %w", err)
	}

	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *analyticsMySQL) GetRevenueTrend(ctx context.Context, tx *gorm.DB, days int) ([]repositories.TrendPoint, error) {
	db := r.getDB(tx)
	startDate := time.Now().AddDate(0, 0, -days)

	var points []repositories.TrendPoint
	if err := db.WithContext(ctx).
		Model(&models.PaymentTransaction{}).
		Select("DATE_FORMAT(updated_at, '%Y-%m-%d') AS period, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Where("status = ? AND updated_at >= ?", models.PaymentPaid, startDate).
		Group("period").
		Order("period ASC").
		Scan(&points).Error; err != nil {
		return nil, fmt.Errorf("failed to get revenue trend: %w", err)
	}

	if points == nil {
		points = []repositories.TrendPoint{}
	}
	return points, nil
}
