package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReadingPreferences holds per-user reader settings, stored inline on the user row.
type ReadingPreferences struct {
	FontSize     string `gorm:"default:'medium'" json:"font_size"`
	Theme        string `gorm:"default:'light'" json:"theme"`
	ReadingSpeed string `gorm:"default:'normal'" json:"reading_speed"`
}

type User struct {
	ID             string             `gorm:"primaryKey;type:uuid" json:"id"`
	Username       string             `gorm:"uniqueIndex;not null" json:"username"`
	Email          string             `gorm:"uniqueIndex;not null" json:"email"`
	Password       string             `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	FullName       string             `json:"full_name"`
	ProfilePicture string             `json:"profile_picture"`
	Preferences    ReadingPreferences `gorm:"embedded;embeddedPrefix:pref_" json:"reading_preferences"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	LastLogin      *time.Time         `json:"last_login,omitempty"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}
