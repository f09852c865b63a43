package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/email"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

// ServiceManagerConfig bundles the per-service settings the manager
// hands down at construction time.
type ServiceManagerConfig struct {
	Auth    AuthConfig
	Content ContentConfig
}

// serviceManager implements ServiceManager.
type serviceManager struct {
	// Dependencies
	db        *gorm.DB
	repo      repositories.Repository
	cache     *cache.CacheManager
	publisher events.EventPublisher
	mail      email.Sender
	logger    *slog.Logger
	validator *validator.Validator
	config    ServiceManagerConfig

	// Service instances
	authService         AuthService
	userService         UserService
	courseService       CourseService
	bookService         BookService
	liveClassService    LiveClassService
	enrollmentService   EnrollmentService
	notificationService NotificationService
	contentService      ContentService
	analyticsService    AnalyticsService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager over shared dependencies.
func NewServiceManager(
	db *gorm.DB,
	repo repositories.Repository,
	cacheManager *cache.CacheManager,
	publisher events.EventPublisher,
	mail email.Sender,
	logger *slog.Logger,
	v *validator.Validator,
	config ServiceManagerConfig,
) ServiceManager {
	return &serviceManager{
		db:        db,
		repo:      repo,
		cache:     cacheManager,
		publisher: publisher,
		mail:      mail,
		logger:    logger,
		validator: v,
		config:    config,
	}
}

func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.notificationService = NewNotificationService(sm.repo, sm.db, sm.publisher, sm.logger)
	sm.authService = NewAuthService(sm.repo, sm.db, sm.cache, sm.mail, sm.notificationService, sm.logger, sm.validator, sm.config.Auth)
	sm.userService = NewUserService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.courseService = NewCourseService(sm.repo, sm.db, sm.cache, sm.publisher, sm.logger, sm.validator)
	sm.bookService = NewBookService(sm.repo, sm.db, sm.cache, sm.publisher, sm.logger, sm.validator)
	sm.liveClassService = NewLiveClassService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.enrollmentService = NewEnrollmentService(sm.repo, sm.db, sm.notificationService, sm.mail, sm.logger, sm.validator)
	sm.contentService = NewContentService(sm.repo, sm.db, sm.logger, sm.config.Content)
	sm.analyticsService = NewAnalyticsService(sm.repo, sm.db, sm.cache, sm.logger)

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) getService(name string, svc interface{}) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	if svc == nil {
		panic(name + " service not initialized")
	}
}

// Service getters

func (sm *serviceManager) Auth() AuthService {
	sm.getService("auth", sm.authService)
	return sm.authService
}

func (sm *serviceManager) User() UserService {
	sm.getService("user", sm.userService)
	return sm.userService
}

func (sm *serviceManager) Course() CourseService {
	sm.getService("course", sm.courseService)
	return sm.courseService
}

func (sm *serviceManager) Book() BookService {
	sm.getService("book", sm.bookService)
	return sm.bookService
}

func (sm *serviceManager) LiveClass() LiveClassService {
	sm.getService("live class", sm.liveClassService)
	return sm.liveClassService
}

func (sm *serviceManager) Enrollment() EnrollmentService {
	sm.getService("enrollment", sm.enrollmentService)
	return sm.enrollmentService
}

func (sm *serviceManager) Notification() NotificationService {
	sm.getService("notification", sm.notificationService)
	return sm.notificationService
}

func (sm *serviceManager) Content() ContentService {
	sm.getService("content", sm.contentService)
	return sm.contentService
}

func (sm *serviceManager) Analytics() AnalyticsService {
	sm.getService("analytics", sm.analyticsService)
	return sm.analyticsService
}

// Health and lifecycle

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	if err := sm.cache.HealthCheck(ctx); err != nil && err != cache.ErrCacheNotAvailable {
		return fmt.Errorf("cache health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.publisher.Close(); err != nil {
		sm.logger.Error("failed to close event publisher", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down")

	return nil
}
