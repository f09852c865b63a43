package mysql

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type RefreshTokenMySQL struct {
	db *gorm.DB
}

func NewRefreshTokenMySQL(db *gorm.DB) repositories.RefreshTokenRepository {
	return &RefreshTokenMySQL{db: db}
}

func (r *RefreshTokenMySQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *RefreshTokenMySQL) Create(ctx context.Context, tx *gorm.DB, token *models.RefreshToken) error {
	if err := r.getDB(tx).WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenMySQL) GetByHash(ctx context.Context, tx *gorm.DB, hash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.getDB(tx).WithContext(ctx).
		Where("token_hash = ?", hash).
		First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *RefreshTokenMySQL) DeleteByHash(ctx context.Context, tx *gorm.DB, hash string) error {
	result := r.getDB(tx).WithContext(ctx).
		Where("token_hash = ?", hash).
		Delete(&models.RefreshToken{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete refresh token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByUser drops every session for a user, used after password resets.
func (r *RefreshTokenMySQL) DeleteByUser(ctx context.Context, tx *gorm.DB, userID uint) error {
	if err := r.getDB(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.RefreshToken{}).Error; err != nil {
		return fmt.Errorf("failed to delete refresh tokens: %w", err)
	}
	return nil
}

func (r *RefreshTokenMySQL) DeleteExpired(ctx context.Context, tx *gorm.DB) error {
	if err := r.getDB(tx).WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.RefreshToken{}).Error; err != nil {
		return fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}
	return nil
}
