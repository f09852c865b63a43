package models

import (
	"time"
)

// RefreshToken stores only the SHA-256 hash of the opaque token handed to
// the client. Rotation deletes the row and issues a fresh one.
type RefreshToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	TokenHash string    `json:"-" gorm:"uniqueIndex;not null;size:64"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (t *RefreshToken) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}
