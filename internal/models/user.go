// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered member of the student hub.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Email          string         `gorm:"unique;not null" json:"email"`
	Password       string         `gorm:"not null" json:"-"`
	Department     string         `json:"department"`
	Year           int            `gorm:"default:1" json:"year"`
	Bio            string         `json:"bio"`
	ProfilePicture string         `json:"profile_picture"`
	IsOnline       bool           `json:"is_online"`
	LastSeen       *time.Time     `json:"last_seen,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
