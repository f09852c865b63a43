package models

import (
	"time"
)

type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "pending"
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

var ValidEnrollmentStatuses = []EnrollmentStatus{
	EnrollmentPending, EnrollmentActive, EnrollmentCompleted, EnrollmentCancelled,
}

// Enrollment links a user to exactly one of a course or a live class.
// The composite unique indexes are the serialization point that keeps
// concurrent identical enroll requests from producing duplicates; the
// service layer never relies on client behavior for this.
type Enrollment struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	UserID      uint             `json:"user_id" gorm:"not null;uniqueIndex:idx_enroll_user_course;uniqueIndex:idx_enroll_user_class"`
	CourseID    *uint            `json:"course_id" gorm:"uniqueIndex:idx_enroll_user_course"`
	LiveClassID *uint            `json:"live_class_id" gorm:"uniqueIndex:idx_enroll_user_class"`
	Status      EnrollmentStatus `json:"status" gorm:"not null;default:pending;size:20;index"`

	ActivatedAt *time.Time `json:"activated_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User      User       `json:"user" gorm:"foreignKey:UserID"`
	Course    *Course    `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	LiveClass *LiveClass `json:"live_class,omitempty" gorm:"foreignKey:LiveClassID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func IsValidEnrollmentStatus(s EnrollmentStatus) bool {
	for _, v := range ValidEnrollmentStatuses {
		if v == s {
			return true
		}
	}
	return false
}
