package models

import (
	"time"

	"gorm.io/gorm"
)

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
	CourseArchived  CourseStatus = "archived"
)

var ValidCourseStatuses = []CourseStatus{CourseDraft, CoursePublished, CourseArchived}

type Course struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Title       string       `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string      `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	Price       float64      `json:"price" gorm:"not null;default:0" validate:"min=0"`
	Status      CourseStatus `json:"status" gorm:"not null;default:draft;size:20;index"`

	// Metadata
	CreatedBy uint           `json:"created_by" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Creator     User         `json:"creator" gorm:"foreignKey:CreatedBy"`
	Enrollments []Enrollment `json:"-" gorm:"foreignKey:CourseID"`

	// Computed fields (not stored)
	EnrollmentCount int64 `json:"enrollment_count" gorm:"-"`
}

func (Course) TableName() string {
	return "courses"
}

func IsValidCourseStatus(s CourseStatus) bool {
	for _, v := range ValidCourseStatuses {
		if v == s {
			return true
		}
	}
	return false
}
