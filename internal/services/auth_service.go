package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/auth"
	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/email"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

// AuthConfig carries token lifetimes and signing material.
type AuthConfig struct {
	JWTSecret       string
	JWTIssuer       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	VerifyTokenTTL  time.Duration
	ResetTokenTTL   time.Duration
}

type authService struct {
	repo          repositories.Repository
	db            *gorm.DB
	cache         *cache.CacheManager
	mail          email.Sender
	notifications NotificationService
	logger        *slog.Logger
	validator     *validator.Validator
	config        AuthConfig
}

func NewAuthService(
	repo repositories.Repository,
	db *gorm.DB,
	cacheManager *cache.CacheManager,
	mail email.Sender,
	notifications NotificationService,
	logger *slog.Logger,
	v *validator.Validator,
	config AuthConfig,
) AuthService {
	return &authService{
		repo:          repo,
		db:            db,
		cache:         cacheManager,
		mail:          mail,
		notifications: notifications,
		logger:        logger,
		validator:     v,
		config:        config,
	}
}

const (
	verifyTokenKeyPrefix = "verify:"
	resetTokenKeyPrefix  = "reset:"
)

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, validator.ValidationErrors{{Field: "password", Message: err.Error(), Rule: "password"}}
	}

	exists, err := s.repo.User().ExistsByEmail(ctx, nil, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Status:       models.UserUnverified,
		Phone:        req.Phone,
	}

	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		// The unique index is the real guard against concurrent registrations.
		if repositories.IsDuplicateError(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)

	if err := s.sendVerificationToken(ctx, user); err != nil {
		// Account creation already succeeded; verification can be re-requested.
		s.logger.Error("failed to send verification email", "error", err, "user_id", user.ID)
	}

	if err := s.notifications.Notify(ctx, user.ID, models.NotificationWelcome,
		"Welcome!", "Your account was created. Verify your email to get started.", nil); err != nil {
		s.logger.Error("failed to create welcome notification", "error", err, "user_id", user.ID)
	}

	return user, nil
}

func (s *authService) sendVerificationToken(ctx context.Context, user *models.User) error {
	token, err := auth.NewOpaqueToken()
	if err != nil {
		return err
	}

	key := verifyTokenKeyPrefix + auth.HashToken(token)
	if err := s.cache.Token.SetString(ctx, key, strconv.FormatUint(uint64(user.ID), 10), s.config.VerifyTokenTTL); err != nil {
		return err
	}

	return s.mail.SendVerificationEmail(user.Email, user.FullName, token)
}

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	key := verifyTokenKeyPrefix + auth.HashToken(token)
	raw, err := s.cache.Token.ConsumeString(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrCacheNotFound) || errors.Is(err, cache.ErrCacheNotAvailable) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to consume verification token: %w", err)
	}

	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := s.repo.User().GetByID(ctx, nil, uint(userID))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if user.Status != models.UserUnverified {
		return nil // already verified, nothing to do
	}

	if err := s.repo.User().Update(ctx, nil, user.ID, map[string]interface{}{
		"status": models.UserActive,
	}); err != nil {
		return fmt.Errorf("failed to activate user: %w", err)
	}

	s.logger.Info("email verified", "user_id", user.ID)
	return nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByEmail(ctx, nil, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if user.Status == models.UserSuspended {
		return nil, ErrUserSuspended
	}

	now := time.Now()
	if err := s.repo.User().Update(ctx, nil, user.ID, map[string]interface{}{
		"last_login_at": now,
	}); err != nil {
		s.logger.Error("failed to record login time", "error", err, "user_id", user.ID)
	}
	user.LastLoginAt = &now

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return result, nil
}

// issueTokens mints an access JWT and a fresh refresh token row.
func (s *authService) issueTokens(ctx context.Context, user *models.User) (*AuthResult, error) {
	accessToken, err := auth.NewAccessToken(s.config.JWTSecret, s.config.JWTIssuer, s.config.AccessTokenTTL, user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := auth.NewOpaqueToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	row := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: auth.HashToken(refreshToken),
		ExpiresAt: time.Now().Add(s.config.RefreshTokenTTL),
	}
	if err := s.repo.RefreshToken().Create(ctx, nil, row); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.AccessTokenTTL.Seconds()),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	hash := auth.HashToken(refreshToken)

	row, err := s.repo.RefreshToken().GetByHash(ctx, nil, hash)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load refresh token: %w", err)
	}

	if row.Expired() {
		_ = s.repo.RefreshToken().DeleteByHash(ctx, nil, hash)
		return nil, ErrInvalidToken
	}

	user, err := s.repo.User().GetByID(ctx, nil, row.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.Status == models.UserSuspended {
		return nil, ErrUserSuspended
	}

	// Rotate: the presented token is dead whether or not issuing succeeds.
	if err := s.repo.RefreshToken().DeleteByHash(ctx, nil, hash); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.repo.RefreshToken().DeleteByHash(ctx, nil, auth.HashToken(refreshToken)); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

func (s *authService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.repo.User().GetByEmail(ctx, nil, emailAddr)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			// Same response whether or not the account exists.
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	token, err := auth.NewOpaqueToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	key := resetTokenKeyPrefix + auth.HashToken(token)
	if err := s.cache.Token.SetString(ctx, key, strconv.FormatUint(uint64(user.ID), 10), s.config.ResetTokenTTL); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.mail.SendPasswordResetEmail(user.Email, user.FullName, token); err != nil {
		s.logger.Error("failed to send password reset email", "error", err, "user_id", user.ID)
	}

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := auth.ValidatePassword(newPassword); err != nil {
		return validator.ValidationErrors{{Field: "password", Message: err.Error(), Rule: "password"}}
	}

	key := resetTokenKeyPrefix + auth.HashToken(token)
	raw, err := s.cache.Token.ConsumeString(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrCacheNotFound) || errors.Is(err, cache.ErrCacheNotAvailable) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return ErrInvalidToken
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.User().Update(ctx, nil, uint(userID), map[string]interface{}{
		"password_hash": hash,
	}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// Every existing session dies with the old password.
	if err := s.repo.RefreshToken().DeleteByUser(ctx, nil, uint(userID)); err != nil {
		s.logger.Error("failed to revoke sessions after password reset", "error", err, "user_id", userID)
	}

	s.logger.Info("password reset", "user_id", userID)
	return nil
}

func (s *authService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*models.User, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	updates := make(map[string]interface{})
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}
	if req.Preferences != nil {
		prefs, err := json.Marshal(req.Preferences)
		if err != nil {
			return nil, fmt.Errorf("failed to encode preferences: %w", err)
		}
		updates["preferences"] = datatypes.JSON(prefs)
	}

	if len(updates) > 0 {
		if err := s.repo.User().Update(ctx, nil, userID, updates); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	return s.GetProfile(ctx, userID)
}

func (s *authService) ChangePassword(ctx context.Context, userID uint, req *ChangePasswordRequest) error {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return errs
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return validator.ValidationErrors{{Field: "new_password", Message: err.Error(), Rule: "password"}}
	}

	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.User().Update(ctx, nil, userID, map[string]interface{}{
		"password_hash": hash,
	}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.repo.RefreshToken().DeleteByUser(ctx, nil, userID); err != nil {
		s.logger.Error("failed to revoke sessions after password change", "error", err, "user_id", userID)
	}

	return nil
}
