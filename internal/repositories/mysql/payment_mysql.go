package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type PaymentMySQL struct {
	db *gorm.DB
}

func NewPaymentMySQL(db *gorm.DB) repositories.PaymentRepository {
	return &PaymentMySQL{db: db}
}

func (r *PaymentMySQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *PaymentMySQL) Create(ctx context.Context, tx *gorm.DB, payment *models.PaymentTransaction) error {
	if err := r.getDB(tx).WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment transaction: %w", err)
	}
	return nil
}

func (r *PaymentMySQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.PaymentTransaction, error) {
	var payment models.PaymentTransaction
	if err := r.getDB(tx).WithContext(ctx).First(&payment, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get payment transaction: %w", err)
	}
	return &payment, nil
}

func (r *PaymentMySQL) GetPendingByEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uint) (*models.PaymentTransaction, error) {
	var payment models.PaymentTransaction
	if err := r.getDB(tx).WithContext(ctx).
		Where("enrollment_id = ? AND status = ?", enrollmentID, models.PaymentPending).
		First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentMySQL) Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error {
	result := r.getDB(tx).WithContext(ctx).
		Model(&models.PaymentTransaction{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update payment transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
