package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

// BusinessValidator handles entity lifecycle rules that tag validation
// cannot express: legal status sets and transitions per entity.
type BusinessValidator struct {
	validate *validator.Validate
}

func NewBusinessValidator() *BusinessValidator {
	return &BusinessValidator{validate: validator.New()}
}

func statusError(value string, legal interface{}) ValidationErrors {
	return ValidationErrors{{
		Field:   "status",
		Message: fmt.Sprintf("unrecognized status, must be one of %v", legal),
		Value:   value,
		Rule:    "status",
	}}
}

// ValidateCourseStatus checks an incoming status value against the course
// lifecycle. The entity is left untouched when this fails.
func (bv *BusinessValidator) ValidateCourseStatus(status string) ValidationErrors {
	if !models.IsValidCourseStatus(models.CourseStatus(status)) {
		return statusError(status, models.ValidCourseStatuses)
	}
	return nil
}

func (bv *BusinessValidator) ValidateBookStatus(status string) ValidationErrors {
	if !models.IsValidBookStatus(models.BookStatus(status)) {
		return statusError(status, models.ValidBookStatuses)
	}
	return nil
}

func (bv *BusinessValidator) ValidateLiveClassStatus(status string) ValidationErrors {
	if !models.IsValidLiveClassStatus(models.LiveClassStatus(status)) {
		return statusError(status, models.ValidLiveClassStatuses)
	}
	return nil
}

func (bv *BusinessValidator) ValidateEnrollmentStatus(status string) ValidationErrors {
	if !models.IsValidEnrollmentStatus(models.EnrollmentStatus(status)) {
		return statusError(status, models.ValidEnrollmentStatuses)
	}
	return nil
}

func (bv *BusinessValidator) ValidateUserStatus(status string) ValidationErrors {
	if !models.IsValidUserStatus(models.UserStatus(status)) {
		return statusError(status, models.ValidUserStatuses)
	}
	return nil
}

// liveClassTransitions encodes the one-way schedule lifecycle; cancelled
// is reachable only before the class has ended.
var liveClassTransitions = map[models.LiveClassStatus][]models.LiveClassStatus{
	models.LiveClassUpcoming:  {models.LiveClassLive, models.LiveClassCancelled},
	models.LiveClassLive:      {models.LiveClassEnded, models.LiveClassCancelled},
	models.LiveClassEnded:     {},
	models.LiveClassCancelled: {},
}

// ValidateLiveClassTransition rejects transitions that would rewind the
// schedule, e.g. ended back to upcoming.
func (bv *BusinessValidator) ValidateLiveClassTransition(from, to models.LiveClassStatus) ValidationErrors {
	if from == to {
		return nil
	}
	for _, allowed := range liveClassTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return ValidationErrors{{
		Field:   "status",
		Message: fmt.Sprintf("cannot transition live class from %s to %s", from, to),
		Value:   string(to),
		Rule:    "status_transition",
	}}
}
