package models

import (
	"time"
)

type NotificationType string

const (
	NotificationWelcome          NotificationType = "user.welcome"
	NotificationEnrollmentActive NotificationType = "enrollment.active"
	NotificationPaymentConfirmed NotificationType = "payment.confirmed"
	NotificationCoursePublished  NotificationType = "course.published"
	NotificationBookPublished    NotificationType = "book.published"
	NotificationClassStarting    NotificationType = "live_class.starting"
)

// Notification rows are created by the event pipeline, never directly by
// request handlers. Only the owning user may mark them read.
type Notification struct {
	ID      uint             `json:"id" gorm:"primaryKey"`
	UserID  uint             `json:"user_id" gorm:"not null;index"`
	Type    NotificationType `json:"type" gorm:"not null;size:50"`
	Title   string           `json:"title" gorm:"not null;size:200"`
	Message string           `json:"message" gorm:"type:text"`

	IsRead bool       `json:"is_read" gorm:"not null;default:false;index"`
	ReadAt *time.Time `json:"read_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
