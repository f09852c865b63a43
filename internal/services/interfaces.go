package services

import (
	"context"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

// Request DTOs are defined next to the validation rules; aliased here so
// handlers and services share one vocabulary.
type (
	RegisterRequest       = validator.RegisterRequest
	LoginRequest          = validator.LoginRequest
	RefreshRequest        = validator.RefreshRequest
	ForgotPasswordRequest = validator.ForgotPasswordRequest
	ResetPasswordRequest  = validator.ResetPasswordRequest
	UpdateProfileRequest  = validator.UpdateProfileRequest
	ChangePasswordRequest = validator.ChangePasswordRequest

	UpdateUserRequest      = validator.UpdateUserRequest
	CourseCreateRequest    = validator.CourseCreateRequest
	CourseUpdateRequest    = validator.CourseUpdateRequest
	BookCreateRequest      = validator.BookCreateRequest
	BookUpdateRequest      = validator.BookUpdateRequest
	LiveClassCreateRequest = validator.LiveClassCreateRequest
	LiveClassUpdateRequest = validator.LiveClassUpdateRequest
	UpdateStatusRequest    = validator.UpdateStatusRequest
	ConfirmPaymentRequest  = validator.ConfirmPaymentRequest
)

// ===== RESPONSE TYPES =====

// AuthResult is returned by login and refresh. The refresh token is the
// opaque value; only its hash is ever stored.
type AuthResult struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
}

type UserListResponse struct {
	Users  []*models.User `json:"users"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type CourseListResponse struct {
	Courses []*models.Course `json:"courses"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

type BookListResponse struct {
	Books  []*models.Book `json:"books"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type LiveClassListResponse struct {
	LiveClasses []*models.LiveClass `json:"live_classes"`
	Total       int64               `json:"total"`
	Limit       int                 `json:"limit"`
	Offset      int                 `json:"offset"`
}

type EnrollmentListResponse struct {
	Enrollments []*models.Enrollment `json:"enrollments"`
	Total       int64                `json:"total"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}

type NotificationListResponse struct {
	Notifications []*models.Notification `json:"notifications"`
	Total         int64                  `json:"total"`
	UnreadCount   int64                  `json:"unread_count"`
	Limit         int                    `json:"limit"`
	Offset        int                    `json:"offset"`
}

// EnrollmentResult is returned by the enroll and purchase operations.
// AlreadyEnrolled distinguishes an idempotent replay from a fresh row.
type EnrollmentResult struct {
	Enrollment      *models.Enrollment         `json:"enrollment"`
	Payment         *models.PaymentTransaction `json:"payment,omitempty"`
	AlreadyEnrolled bool                       `json:"already_enrolled"`
}

// ContentFile describes a deliverable asset. Data is set for generated
// content (placeholder covers); otherwise Path points at a file on disk.
type ContentFile struct {
	Path        string
	Data        []byte
	ContentType string
	Filename    string
}

// AnalyticsOverview is the admin dashboard aggregate.
type AnalyticsOverview struct {
	Counts            *repositories.OverviewCounts        `json:"counts"`
	TotalRevenue      float64                             `json:"total_revenue"`
	RegistrationTrend []repositories.TrendPoint           `json:"registration_trend"`
	TopCourses        []repositories.CourseEnrollmentStat `json:"top_courses"`
}

type UserAnalytics struct {
	ByRole   []repositories.RoleCount   `json:"by_role"`
	ByStatus []repositories.StatusCount `json:"by_status"`
	Trend    []repositories.TrendPoint  `json:"trend"`
}

type CourseAnalytics struct {
	ByStatus []repositories.StatusCount          `json:"by_status"`
	ByCourse []repositories.CourseEnrollmentStat `json:"by_course"`
}

type RevenueAnalytics struct {
	Total float64                   `json:"total"`
	Trend []repositories.TrendPoint `json:"trend"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	VerifyEmail(ctx context.Context, token string) error

	GetProfile(ctx context.Context, userID uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID uint, req *ChangePasswordRequest) error
}

type UserService interface {
	List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Update(ctx context.Context, id uint, req *UpdateUserRequest) (*models.User, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*models.User, error)
	Delete(ctx context.Context, id uint, actorID uint) error
}

type CourseService interface {
	Create(ctx context.Context, req *CourseCreateRequest, creatorID uint) (*models.Course, error)
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error)
	ListPublished(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error)
	Update(ctx context.Context, id uint, req *CourseUpdateRequest) (*models.Course, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*models.Course, error)
	Delete(ctx context.Context, id uint) error
}

type BookService interface {
	Create(ctx context.Context, req *BookCreateRequest, creatorID uint) (*models.Book, error)
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	List(ctx context.Context, filters repositories.BookFilters) (*BookListResponse, error)
	ListAvailable(ctx context.Context, filters repositories.BookFilters) (*BookListResponse, error)
	Update(ctx context.Context, id uint, req *BookUpdateRequest) (*models.Book, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*models.Book, error)
	Delete(ctx context.Context, id uint) error
}

type LiveClassService interface {
	Create(ctx context.Context, req *LiveClassCreateRequest, creatorID uint) (*models.LiveClass, error)
	GetByID(ctx context.Context, id uint) (*models.LiveClass, error)
	List(ctx context.Context, filters repositories.LiveClassFilters) (*LiveClassListResponse, error)
	ListVisible(ctx context.Context, filters repositories.LiveClassFilters) (*LiveClassListResponse, error)
	Update(ctx context.Context, id uint, req *LiveClassUpdateRequest) (*models.LiveClass, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*models.LiveClass, error)
	Delete(ctx context.Context, id uint) error
}

type EnrollmentService interface {
	EnrollInCourse(ctx context.Context, userID, courseID uint) (*EnrollmentResult, error)
	EnrollInLiveClass(ctx context.Context, userID, classID uint) (*EnrollmentResult, error)
	ConfirmPayment(ctx context.Context, userID uint, req *ConfirmPaymentRequest) (*EnrollmentResult, error)
	Cancel(ctx context.Context, userID, enrollmentID uint) (*models.Enrollment, error)
	ListMine(ctx context.Context, userID uint, filters repositories.EnrollmentFilters) (*EnrollmentListResponse, error)
	List(ctx context.Context, filters repositories.EnrollmentFilters) (*EnrollmentListResponse, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*models.Enrollment, error)
}

type NotificationService interface {
	Notify(ctx context.Context, userID uint, nType models.NotificationType, title, message string, data interface{}) error
	ListMine(ctx context.Context, userID uint, filters repositories.NotificationFilters) (*NotificationListResponse, error)
	MarkRead(ctx context.Context, userID, notificationID uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}

type ContentService interface {
	GetSecurePdf(ctx context.Context, userID, bookID uint) (*ContentFile, error)
	GetCover(ctx context.Context, bookID uint) (*ContentFile, error)
}

type AnalyticsService interface {
	GetOverview(ctx context.Context) (*AnalyticsOverview, error)
	GetUserAnalytics(ctx context.Context, days int) (*UserAnalytics, error)
	GetCourseAnalytics(ctx context.Context) (*CourseAnalytics, error)
	GetRevenueAnalytics(ctx context.Context, days int) (*RevenueAnalytics, error)
	ExportOverview(ctx context.Context) (*ContentFile, error)
}

// ServiceManager wires every service over shared dependencies and owns
// their lifecycle.
type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Course() CourseService
	Book() BookService
	LiveClass() LiveClassService
	Enrollment() EnrollmentService
	Notification() NotificationService
	Content() ContentService
	Analytics() AnalyticsService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
	HealthCheck(ctx context.Context) error
}
