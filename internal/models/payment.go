package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// PaymentTransaction records a purchase attempt for an enrollment.
// The provider binding itself (checkout, webhooks) lives outside this
// service; confirmation arrives as an explicit operation carrying the
// provider's reference.
type PaymentTransaction struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	UserID       uint          `json:"user_id" gorm:"not null;index"`
	EnrollmentID uint          `json:"enrollment_id" gorm:"not null;index"`
	Amount       float64       `json:"amount" gorm:"not null"`
	Currency     string        `json:"currency" gorm:"not null;size:8;default:INR"`
	Provider     string        `json:"provider" gorm:"not null;size:40;default:razorpay"`
	ProviderRef  *string       `json:"provider_ref" gorm:"size:255;index"`
	Status       PaymentStatus `json:"status" gorm:"not null;default:pending;size:20;index"`

	Metadata datatypes.JSON `json:"metadata" gorm:"type:json"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User       User       `json:"-" gorm:"foreignKey:UserID"`
	Enrollment Enrollment `json:"-" gorm:"foreignKey:EnrollmentID"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}
