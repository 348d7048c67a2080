package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account that owns a subtree of the storage root.
// Username doubles as the name of that subtree directory, so its charset
// is restricted at creation time (see internal/users).
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	IsAdmin      bool   `gorm:"default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`

	// Relationships
	Uploads []UploadRecord `gorm:"foreignKey:UserID"`
}

// UploadRecord is an audit row written for each successful upload
type UploadRecord struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	Path      string `gorm:"not null"` // relative to the owner's subtree
	Size      int64
	MimeType  string
	CreatedAt time.Time

	// Relationships
	User User `gorm:"foreignKey:UserID"`
}
