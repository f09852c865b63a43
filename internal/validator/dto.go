package validator

import (
	"time"
)

// ===== AUTH =====

type RegisterRequest struct {
	FullName string  `json:"full_name" validate:"required,min=2,max=100"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UpdateProfileRequest struct {
	FullName    *string                `json:"full_name" validate:"omitempty,min=2,max=100"`
	Phone       *string                `json:"phone" validate:"omitempty,max=30"`
	AvatarURL   *string                `json:"avatar_url" validate:"omitempty,url,max=500"`
	Preferences map[string]interface{} `json:"preferences"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// ===== ADMIN: USERS =====

type UpdateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin user"`
	Status   *string `json:"status" validate:"omitempty,oneof=active suspended unverified"`
}

// ===== COURSES =====

type CourseCreateRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Price       float64 `json:"price" validate:"min=0"`
}

type CourseUpdateRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Price       *float64 `json:"price" validate:"omitempty,min=0"`
}

// ===== BOOKS =====

type BookCreateRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Author      string  `json:"author" validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Price       float64 `json:"price" validate:"min=0"`
	PdfPath     string  `json:"pdf_path" validate:"required,max=500"`
	CoverPath   *string `json:"cover_path" validate:"omitempty,max=500"`
}

type BookUpdateRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Author      *string  `json:"author" validate:"omitempty,min=1,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Price       *float64 `json:"price" validate:"omitempty,min=0"`
	PdfPath     *string  `json:"pdf_path" validate:"omitempty,max=500"`
	CoverPath   *string  `json:"cover_path" validate:"omitempty,max=500"`
	IsPublished *bool    `json:"is_published"`
}

// ===== LIVE CLASSES =====

type LiveClassCreateRequest struct {
	Title       string    `json:"title" validate:"required,min=1,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	MeetingURL  *string   `json:"meeting_url" validate:"omitempty,url,max=500"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	DurationMin int       `json:"duration_min" validate:"required,min=5,max=480"`
}

type LiveClassUpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	MeetingURL  *string    `json:"meeting_url" validate:"omitempty,url,max=500"`
	StartsAt    *time.Time `json:"starts_at"`
	DurationMin *int       `json:"duration_min" validate:"omitempty,min=5,max=480"`
}

// ===== STATUS / ENROLLMENT =====

// UpdateStatusRequest carries the raw status string; the business
// validator checks it against the entity's legal set so unknown values
// are rejected before any write happens.
type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required,max=20"`
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

type ConfirmPaymentRequest struct {
	PaymentID   uint   `json:"payment_id" validate:"required"`
	ProviderRef string `json:"provider_ref" validate:"required,max=255"`
}
