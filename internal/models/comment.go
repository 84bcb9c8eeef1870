// Package models contains data structures for the application's domain models.
package models

import "time"

// Comment is embedded in a post's aggregate. Comments are append-only:
// once written they are never edited or removed, and their order is the
// insertion order.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	PostID    uint      `gorm:"not null;index" json:"-"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
