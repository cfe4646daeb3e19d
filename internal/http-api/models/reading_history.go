package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressRecord tracks one user's reading position in one book.
// At most one record exists per (user, book) pair, enforced by the
// compound unique index.
type ProgressRecord struct {
	ID                 string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID             string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_book;index" json:"user_id"`
	BookID             string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_book" json:"book_id"`
	CurrentPage        int       `gorm:"default:0" json:"current_page"`
	TotalPages         int       `gorm:"default:0" json:"total_pages"`
	ProgressPercentage float64   `gorm:"default:0" json:"progress_percentage"` // derived, never trusted from input
	StartedReading     time.Time `json:"started_reading"`                      // set once at first creation
	LastRead           time.Time `gorm:"index" json:"last_read"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Association
	Book *Book `gorm:"foreignKey:BookID;references:ID" json:"book,omitempty"`
}

func (rec *ProgressRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	return
}

// TableName overrides the table name used by ProgressRecord to `reading_history`
func (ProgressRecord) TableName() string {
	return "reading_history"
}
