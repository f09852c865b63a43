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

type courseService struct {
	repo      repositories.Repository
	db        *gorm.DB
	cache     *cache.CacheManager
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCourseService(
	repo repositories.Repository,
	db *gorm.DB,
	cacheManager *cache.CacheManager,
	publisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
) CourseService {
	return &courseService{
		repo:      repo,
		db:        db,
		cache:     cacheManager,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *courseService) Create(ctx context.Context, req *CourseCreateRequest, creatorID uint) (*models.Course, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Status:      models.CourseDraft,
		CreatedBy:   creatorID,
	}

	if err := s.repo.Course().Create(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info("course created", "course_id", course.ID, "creator_id", creatorID)
	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	return course, nil
}

func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error) {
	courses, total, err := s.repo.Course().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	return &CourseListResponse{
		Courses: courses,
		Total:   total,
		Limit:   filters.Limit,
		Offset:  filters.Offset,
	}, nil
}

// ListPublished is the student-facing catalog. The status filter is forced
// here so no query parameter can widen it.
func (s *courseService) ListPublished(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error) {
	published := models.CoursePublished
	filters.Status = &published
	return s.List(ctx, filters)
}

func (s *courseService) Update(ctx context.Context, id uint, req *CourseUpdateRequest) (*models.Course, error) {
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
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}

	if len(updates) > 0 {
		if err := s.repo.Course().Update(ctx, nil, id, updates); err != nil {
			return nil, fmt.Errorf("failed to update course: %w", err)
		}
		cache.InvalidateCourseCache(ctx, s.cache, id)
	}

	return s.GetByID(ctx, id)
}

func (s *courseService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Course, error) {
	if errs := s.validator.GetBusinessValidator().ValidateCourseStatus(status); len(errs) > 0 {
		return nil, errs
	}

	course, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus := models.CourseStatus(status)
	if course.Status == newStatus {
		return course, nil
	}

	if err := s.repo.Course().UpdateStatus(ctx, nil, id, newStatus); err != nil {
		return nil, fmt.Errorf("failed to update course status: %w", err)
	}
	cache.InvalidateCourseCache(ctx, s.cache, id)

	if newStatus == models.CoursePublished {
		event := events.NewEvent(events.TypeCoursePublished, map[string]interface{}{
			"course_id": id,
			"title":     course.Title,
		})
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish course event", "error", err, "course_id", id)
		}
	}

	s.logger.Info("course status updated", "course_id", id, "status", status)
	return s.GetByID(ctx, id)
}

func (s *courseService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	hasActive, err := s.repo.Course().HasActiveEnrollments(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("failed to check enrollments: %w", err)
	}
	if hasActive {
		return ErrCourseHasEnrollments
	}

	if err := s.repo.Course().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	cache.InvalidateCourseCache(ctx, s.cache, id)

	s.logger.Info("course deleted", "course_id", id)
	return nil
}
