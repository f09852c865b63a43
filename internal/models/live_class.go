package models

import (
	"time"

	"gorm.io/gorm"
)

type LiveClassStatus string

const (
	LiveClassUpcoming  LiveClassStatus = "upcoming"
	LiveClassLive      LiveClassStatus = "live"
	LiveClassEnded     LiveClassStatus = "ended"
	LiveClassCancelled LiveClassStatus = "cancelled"
)

var ValidLiveClassStatuses = []LiveClassStatus{
	LiveClassUpcoming, LiveClassLive, LiveClassEnded, LiveClassCancelled,
}

type LiveClass struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Title       string          `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string         `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	MeetingURL  *string         `json:"meeting_url" gorm:"size:500" validate:"omitempty,url,max=500"`
	StartsAt    time.Time       `json:"starts_at" gorm:"not null;index" validate:"required"`
	DurationMin int             `json:"duration_min" gorm:"not null;default:60" validate:"min=5,max=480"`
	Status      LiveClassStatus `json:"status" gorm:"not null;default:upcoming;size:20;index"`

	// Metadata
	CreatedBy uint           `json:"created_by" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Creator     User         `json:"creator" gorm:"foreignKey:CreatedBy"`
	Enrollments []Enrollment `json:"-" gorm:"foreignKey:LiveClassID"`
}

func (LiveClass) TableName() string {
	return "live_classes"
}

func IsValidLiveClassStatus(s LiveClassStatus) bool {
	for _, v := range ValidLiveClassStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// StudentVisible reports whether the class shows up in student listings.
func (lc *LiveClass) StudentVisible() bool {
	return lc.Status == LiveClassUpcoming || lc.Status == LiveClassLive
}
