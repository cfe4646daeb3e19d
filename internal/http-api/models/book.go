package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Book struct {
	ID              string     `gorm:"primaryKey;type:uuid" json:"id"`
	Title           string     `gorm:"not null;index" json:"title"`
	Author          string     `gorm:"not null;index" json:"author"`
	Description     string     `json:"description"`
	Content         string     `gorm:"type:text" json:"content,omitempty"`
	CoverImage      string     `json:"cover_image"`
	Genre           string     `json:"genre"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	TotalPages      int        `gorm:"default:1" json:"total_pages"` // derived from content, crude paragraph count
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (book *Book) BeforeCreate(tx *gorm.DB) (err error) {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	return
}

func (Book) TableName() string {
	return "books"
}
