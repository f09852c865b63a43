package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the service layer. Handlers map these to
// HTTP status codes in one place.
var (
	// Not found
	ErrUserNotFound         = errors.New("user not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrBookNotFound         = errors.New("book not found")
	ErrLiveClassNotFound    = errors.New("live class not found")
	ErrEnrollmentNotFound   = errors.New("enrollment not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// Auth
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserSuspended      = errors.New("account is suspended")
	ErrEmailNotVerified   = errors.New("email not verified")

	// State
	ErrCourseNotPublished    = errors.New("course is not published")
	ErrBookNotAvailable      = errors.New("book is not available")
	ErrLiveClassNotBookable  = errors.New("live class is not open for booking")
	ErrCourseHasEnrollments  = errors.New("course has active enrollments")
	ErrPaymentAlreadySettled = errors.New("payment already settled")
	ErrContentNotFound       = errors.New("content file not found")
)

// PermissionError carries who tried what on which resource.
type PermissionError struct {
	UserID   uint
	Resource string
	ID       uint
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %d cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ID, e.Reason)
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		ID:       resourceID,
		Action:   action,
		Reason:   reason,
	}
}

// ConflictError signals a state transition the current state does not allow.
type ConflictError struct {
	Resource string
	ID       uint
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %d: %s", e.Resource, e.ID, e.Reason)
}

func NewConflictError(resource string, id uint, reason string) *ConflictError {
	return &ConflictError{Resource: resource, ID: id, Reason: reason}
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrCourseNotFound),
		errors.Is(err, ErrBookNotFound),
		errors.Is(err, ErrLiveClassNotFound),
		errors.Is(err, ErrEnrollmentNotFound),
		errors.Is(err, ErrPaymentNotFound),
		errors.Is(err, ErrNotificationNotFound),
		errors.Is(err, ErrContentNotFound):
		return true
	}
	return false
}
