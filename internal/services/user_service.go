package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
	}
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error) {
	users, total, err := s.repo.User().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return &UserListResponse{
		Users:  users,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	}, nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id uint, req *UpdateUserRequest) (*models.User, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Role != nil {
		updates["role"] = models.UserRole(*req.Role)
	}
	if req.Status != nil {
		if errs := s.validator.GetBusinessValidator().ValidateUserStatus(*req.Status); len(errs) > 0 {
			return nil, errs
		}
		updates["status"] = models.UserStatus(*req.Status)
	}

	if len(updates) > 0 {
		if err := s.repo.User().Update(ctx, nil, id, updates); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	return s.GetByID(ctx, id)
}

func (s *userService) UpdateStatus(ctx context.Context, id uint, status string) (*models.User, error) {
	if errs := s.validator.GetBusinessValidator().ValidateUserStatus(status); len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.User().Update(ctx, nil, id, map[string]interface{}{
		"status": models.UserStatus(status),
	}); err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}

	// Suspension also revokes every live session.
	if models.UserStatus(status) == models.UserSuspended {
		if err := s.repo.RefreshToken().DeleteByUser(ctx, nil, id); err != nil {
			s.logger.Error("failed to revoke sessions for suspended user", "error", err, "user_id", id)
		}
	}

	s.logger.Info("user status updated", "user_id", id, "status", status)
	return s.GetByID(ctx, id)
}

func (s *userService) Delete(ctx context.Context, id uint, actorID uint) error {
	if id == actorID {
		return NewConflictError("user", id, "cannot delete own account")
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.RefreshToken().DeleteByUser(ctx, tx, id); err != nil {
			return err
		}
		return s.repo.User().Delete(ctx, tx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("user deleted", "user_id", id, "actor_id", actorID)
	return nil
}
