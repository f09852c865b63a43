package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

type liveClassService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewLiveClassService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) LiveClassService {
	return &liveClassService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
	}
}

func (s *liveClassService) Create(ctx context.Context, req *LiveClassCreateRequest, creatorID uint) (*models.LiveClass, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}
	if req.StartsAt.Before(time.Now()) {
		return nil, validator.ValidationErrors{{
			Field:   "starts_at",
			Message: "must be in the future",
			Rule:    "future",
		}}
	}

	class := &models.LiveClass{
		Title:       req.Title,
		Description: req.Description,
		MeetingURL:  req.MeetingURL,
		StartsAt:    req.StartsAt,
		DurationMin: req.DurationMin,
		Status:      models.LiveClassUpcoming,
		CreatedBy:   creatorID,
	}

	if err := s.repo.LiveClass().Create(ctx, nil, class); err != nil {
		return nil, fmt.Errorf("failed to create live class: %w", err)
	}

	s.logger.Info("live class created", "live_class_id", class.ID, "starts_at", class.StartsAt)
	return class, nil
}

func (s *liveClassService) GetByID(ctx context.Context, id uint) (*models.LiveClass, error) {
	class, err := s.repo.LiveClass().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLiveClassNotFound
		}
		return nil, fmt.Errorf("failed to load live class: %w", err)
	}
	return class, nil
}

func (s *liveClassService) List(ctx context.Context, filters repositories.LiveClassFilters) (*LiveClassListResponse, error) {
	classes, total, err := s.repo.LiveClass().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list live classes: %w", err)
	}

	return &LiveClassListResponse{
		LiveClasses: classes,
		Total:       total,
		Limit:       filters.Limit,
		Offset:      filters.Offset,
	}, nil
}

// ListVisible returns classes a student may see and book: upcoming or
// currently live, never ended or cancelled ones. The visibility
// predicate runs in the query so Total counts every visible class, not
// just the current page.
func (s *liveClassService) ListVisible(ctx context.Context, filters repositories.LiveClassFilters) (*LiveClassListResponse, error) {
	filters.Statuses = []models.LiveClassStatus{models.LiveClassUpcoming, models.LiveClassLive}
	if filters.Status != nil && *filters.Status != models.LiveClassUpcoming && *filters.Status != models.LiveClassLive {
		filters.Status = nil
	}
	return s.List(ctx, filters)
}

func (s *liveClassService) Update(ctx context.Context, id uint, req *LiveClassUpdateRequest) (*models.LiveClass, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	class, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if class.Status == models.LiveClassEnded || class.Status == models.LiveClassCancelled {
		return nil, NewConflictError("live_class", id, "cannot edit a finished class")
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.MeetingURL != nil {
		updates["meeting_url"] = *req.MeetingURL
	}
	if req.StartsAt != nil {
		if req.StartsAt.Before(time.Now()) {
			return nil, validator.ValidationErrors{{
				Field:   "starts_at",
				Message: "must be in the future",
				Rule:    "future",
			}}
		}
		updates["starts_at"] = *req.StartsAt
	}
	if req.DurationMin != nil {
		updates["duration_min"] = *req.DurationMin
	}

	if len(updates) > 0 {
		if err := s.repo.LiveClass().Update(ctx, nil, id, updates); err != nil {
			return nil, fmt.Errorf("failed to update live class: %w", err)
		}
	}

	return s.GetByID(ctx, id)
}

func (s *liveClassService) UpdateStatus(ctx context.Context, id uint, status string) (*models.LiveClass, error) {
	bv := s.validator.GetBusinessValidator()
	if errs := bv.ValidateLiveClassStatus(status); len(errs) > 0 {
		return nil, errs
	}

	class, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus := models.LiveClassStatus(status)
	if errs := bv.ValidateLiveClassTransition(class.Status, newStatus); len(errs) > 0 {
		return nil, errs
	}
	if class.Status == newStatus {
		return class, nil
	}

	if err := s.repo.LiveClass().UpdateStatus(ctx, nil, id, newStatus); err != nil {
		return nil, fmt.Errorf("failed to update live class status: %w", err)
	}

	s.logger.Info("live class status updated", "live_class_id", id, "status", status)
	return s.GetByID(ctx, id)
}

func (s *liveClassService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.LiveClass().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete live class: %w", err)
	}

	s.logger.Info("live class deleted", "live_class_id", id)
	return nil
}
