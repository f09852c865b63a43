package mysql

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

// MySQLRepository implements the aggregate Repository interface.
type MySQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	user         repositories.UserRepository
	course       repositories.CourseRepository
	book         repositories.BookRepository
	liveClass    repositories.LiveClassRepository
	enrollment   repositories.EnrollmentRepository
	payment      repositories.PaymentRepository
	notification repositories.NotificationRepository
	refreshToken repositories.RefreshTokenRepository
	analytics    repositories.AnalyticsRepository
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewMySQLRepository creates the repository manager with all sub-repositories.
func NewMySQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &MySQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	repo.user = NewUserMySQL(config.DB)
	repo.course = NewCourseMySQL(config.DB, cacheManager)
	repo.book = NewBookMySQL(config.DB, cacheManager)
	repo.liveClass = NewLiveClassMySQL(config.DB)
	repo.enrollment = NewEnrollmentMySQL(config.DB)
	repo.payment = NewPaymentMySQL(config.DB)
	repo.notification = NewNotificationMySQL(config.DB)
	repo.refreshToken = NewRefreshTokenMySQL(config.DB)
	repo.analytics = NewAnalyticsMySQL(config.DB)

	return repo
}

func (r *MySQLRepository) User() repositories.UserRepository                 { return r.user }
func (r *MySQLRepository) Course() repositories.CourseRepository             { return r.course }
func (r *MySQLRepository) Book() repositories.BookRepository                 { return r.book }
func (r *MySQLRepository) LiveClass() repositories.LiveClassRepository       { return r.liveClass }
func (r *MySQLRepository) Enrollment() repositories.EnrollmentRepository     { return r.enrollment }
func (r *MySQLRepository) Payment() repositories.PaymentRepository           { return r.payment }
func (r *MySQLRepository) Notification() repositories.NotificationRepository { return r.notification }
func (r *MySQLRepository) RefreshToken() repositories.RefreshTokenRepository { return r.refreshToken }
func (r *MySQLRepository) Analytics() repositories.AnalyticsRepository       { return r.analytics }

// WithTransaction runs fn inside a database transaction.
func (r *MySQLRepository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// Ping verifies database connectivity.
func (r *MySQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (r *MySQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}
