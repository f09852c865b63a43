package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role      *models.UserRole   `json:"role"`
	Status    *models.UserStatus `json:"status"`
	Search    string             `json:"search"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
	SortBy    string             `json:"sort_by"`    // "created_at", "email", "full_name"
	SortOrder string             `json:"sort_order"` // "asc", "desc"
}

type CourseFilters struct {
	Status    *models.CourseStatus `json:"status"`
	CreatedBy *uint                `json:"created_by"`
	Search    string               `json:"search"`
	PriceMax  *float64             `json:"price_max"`
	Limit     int                  `json:"limit"`
	Offset    int                  `json:"offset"`
	SortBy    string               `json:"sort_by"` // "created_at", "title", "price"
	SortOrder string               `json:"sort_order"`
}

type BookFilters struct {
	Status      *models.BookStatus `json:"status"`
	IsPublished *bool              `json:"is_published"`
	CreatedBy   *uint              `json:"created_by"`
	Search      string             `json:"search"`
	Limit       int                `json:"limit"`
	Offset      int                `json:"offset"`
	SortBy      string             `json:"sort_by"` // "created_at", "title", "author"
	SortOrder   string             `json:"sort_order"`
}

type LiveClassFilters struct {
	Status    *models.LiveClassStatus  `json:"status"`
	Statuses  []models.LiveClassStatus `json:"statuses"`
	From      *time.Time               `json:"from"`
	To        *time.Time               `json:"to"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
	SortBy    string                   `json:"sort_by"` // "starts_at", "created_at", "title"
	SortOrder string                   `json:"sort_order"`
}

type EnrollmentFilters struct {
	Status      *models.EnrollmentStatus `json:"status"`
	UserID      *uint                    `json:"user_id"`
	CourseID    *uint                    `json:"course_id"`
	LiveClassID *uint                    `json:"live_class_id"`
	Limit       int                      `json:"limit"`
	Offset      int                      `json:"offset"`
	SortBy      string                   `json:"sort_by"`
	SortOrder   string                   `json:"sort_order"`
}

type NotificationFilters struct {
	IsRead *bool `json:"is_read"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// ===== ANALYTICS STRUCTS =====

type OverviewCounts struct {
	TotalUsers       int64 `json:"total_users"`
	TotalCourses     int64 `json:"total_courses"`
	TotalBooks       int64 `json:"total_books"`
	TotalLiveClasses int64 `json:"total_live_classes"`
	TotalEnrollments int64 `json:"total_enrollments"`
	ActiveUsers      int64 `json:"active_users"`
}

type TrendPoint struct {
	Period string  `json:"period"` // "2026-08-31" day bucket
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

type RoleCount struct {
	Role  models.UserRole `json:"role"`
	Count int64           `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type CourseEnrollmentStat struct {
	CourseID    uint    `json:"course_id"`
	Title       string  `json:"title"`
	Enrollments int64   `json:"enrollments"`
	Completed   int64   `json:"completed"`
	Revenue     float64 `json:"revenue"`
}

// ===== REPOSITORY INTERFACES =====

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	List(ctx context.Context, tx *gorm.DB, filters UserFilters) ([]*models.User, int64, error)
	Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	List(ctx context.Context, tx *gorm.DB, filters CourseFilters) ([]*models.Course, int64, error)
	Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.CourseStatus) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	HasActiveEnrollments(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
}

type BookRepository interface {
	Create(ctx context.Context, tx *gorm.DB, book *models.Book) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Book, error)
	List(ctx context.Context, tx *gorm.DB, filters BookFilters) ([]*models.Book, int64, error)
	Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.BookStatus) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type LiveClassRepository interface {
	Create(ctx context.Context, tx *gorm.DB, class *models.LiveClass) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.LiveClass, error)
	List(ctx context.Context, tx *gorm.DB, filters LiveClassFilters) ([]*models.LiveClass, int64, error)
	Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.LiveClassStatus) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error)
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uint) (*models.Enrollment, error)
	GetByUserAndLiveClass(ctx context.Context, tx *gorm.DB, userID, classID uint) (*models.Enrollment, error)
	List(ctx context.Context, tx *gorm.DB, filters EnrollmentFilters) ([]*models.Enrollment, int64, error)
	Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error
}

type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, payment *models.PaymentTransaction) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.PaymentTransaction, error)
	GetPendingByEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uint) (*models.PaymentTransaction, error)
	Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error
}

type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint, filters NotificationFilters) ([]*models.Notification, int64, error)
	CountUnread(ctx context.Context, tx *gorm.DB, userID uint) (int64, error)
	MarkRead(ctx context.Context, tx *gorm.DB, id, userID uint) error
	MarkAllRead(ctx context.Context, tx *gorm.DB, userID uint) error
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, tx *gorm.DB, token *models.RefreshToken) error
	GetByHash(ctx context.Context, tx *gorm.DB, hash string) (*models.RefreshToken, error)
	DeleteByHash(ctx context.Context, tx *gorm.DB, hash string) error
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID uint) error
	DeleteExpired(ctx context.Context, tx *gorm.DB) error
}

type AnalyticsRepository interface {
	GetOverviewCounts(ctx context.Context, tx *gorm.DB, activeDays int) (*OverviewCounts, error)
	GetRegistrationTrend(ctx context.Context, tx *gorm.DB, days int) ([]TrendPoint, error)
	GetUsersByRole(ctx context.Context, tx *gorm.DB) ([]RoleCount, error)
	GetUsersByStatus(ctx context.Context, tx *gorm.DB) ([]StatusCount, error)
	GetCourseEnrollmentStats(ctx context.Context, tx *gorm.DB, limit int) ([]CourseEnrollmentStat, error)
	GetEnrollmentsByStatus(ctx context.Context, tx *gorm.DB) ([]StatusCount, error)
	GetTotalRevenue(ctx context.Context, tx *gorm.DB) (float64, error)
	GetRevenueTrend(ctx context.Context, tx *gorm.DB, days int) ([]TrendPoint, error)
}

// Repository is the aggregate access point handed to services.
type Repository interface {
	User() UserRepository
	Course() CourseRepository
	Book() BookRepository
	LiveClass() LiveClassRepository
	Enrollment() EnrollmentRepository
	Payment() PaymentRepository
	Notification() NotificationRepository
	RefreshToken() RefreshTokenRepository
	Analytics() AnalyticsRepository

	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Ping(ctx context.Context) error
	Close() error
}
