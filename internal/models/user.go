package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type UserStatus string

const (
	UserUnverified UserStatus = "unverified"
	UserActive     UserStatus = "active"
	UserSuspended  UserStatus = "suspended"
)

// ValidUserStatuses is the fixed set of states an admin may assign.
var ValidUserStatuses = []UserStatus{UserUnverified, UserActive, UserSuspended}

type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	FullName     string     `json:"full_name" gorm:"not null;size:100"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string     `json:"-" gorm:"not null;size:255"`
	Role         UserRole   `json:"role" gorm:"not null;default:user;size:20;index"`
	Status       UserStatus `json:"status" gorm:"not null;default:unverified;size:20;index"`

	// Profile info
	AvatarURL   *string        `json:"avatar_url" gorm:"size:500"`
	Phone       *string        `json:"phone" gorm:"size:30"`
	Preferences datatypes.JSON `json:"preferences" gorm:"type:json"`

	LastLoginAt *time.Time `json:"last_login_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Notifications []Notification `json:"-" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}

// IsValidUserStatus reports whether s is one of the assignable user states.
func IsValidUserStatus(s UserStatus) bool {
	for _, v := range ValidUserStatuses {
		if v == s {
			return true
		}
	}
	return false
}
