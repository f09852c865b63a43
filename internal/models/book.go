package models

import (
	"time"

	"gorm.io/gorm"
)

type BookStatus string

const (
	BookDraft     BookStatus = "draft"
	BookPublished BookStatus = "published"
	BookArchived  BookStatus = "archived"
)

var ValidBookStatuses = []BookStatus{BookDraft, BookPublished, BookArchived}

// Book carries a protected PDF. The file paths never leave the server;
// content is reachable only through the secure delivery endpoints.
type Book struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Author      string     `json:"author" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Description *string    `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	Price       float64    `json:"price" gorm:"not null;default:0" validate:"min=0"`
	Status      BookStatus `json:"status" gorm:"not null;default:draft;size:20;index"`

	// Both status=published and is_published must hold before the PDF is servable.
	IsPublished bool `json:"is_published" gorm:"not null;default:false;index"`

	PdfPath   string  `json:"-" gorm:"size:500"`
	CoverPath *string `json:"-" gorm:"size:500"`

	// Metadata
	CreatedBy uint           `json:"created_by" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Creator User `json:"creator" gorm:"foreignKey:CreatedBy"`
}

func (Book) TableName() string {
	return "books"
}

func IsValidBookStatus(s BookStatus) bool {
	for _, v := range ValidBookStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Servable reports whether the book's protected content may be delivered.
func (b *Book) Servable() bool {
	return b.Status == BookPublished && b.IsPublished
}
