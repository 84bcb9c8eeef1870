// Package models contains data structures for the application's domain models.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// TagList is an ordered list of tags stored as a JSON text column.
type TagList []string

// Value implements driver.Valuer.
func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		t = TagList{}
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *TagList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = TagList{}
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("unsupported tag list source type %T", src)
	}
}

// ParseTags splits a comma-separated tag string into a normalized list:
// entries are trimmed, empties dropped, duplicates removed, order preserved.
func ParseTags(csv string) TagList {
	parts := strings.Split(csv, ",")
	tags := make(TagList, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		tag := strings.TrimSpace(p)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// Post is the aggregate root of the feed. It owns its likes set and its
// comment list; both are loaded at query time, never persisted on the row.
//
// AuthorName/AuthorEmail/AuthorDepartment are a point-in-time copy of the
// author's profile taken at creation. They are intentionally not refreshed
// when the author later edits their profile.
type Post struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	UserID      uint    `gorm:"not null;index" json:"user_id"`
	Title       string  `gorm:"not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Category    string  `gorm:"not null" json:"category"`
	Tags        TagList `gorm:"type:text" json:"tags"`

	// Optional attachment hosted by the external media service.
	FileURL      string `json:"file_url,omitempty"`
	FileType     string `json:"file_type,omitempty"`
	OriginalName string `json:"original_name,omitempty"`

	AuthorName       string `json:"user_name"`
	AuthorEmail      string `json:"user_email"`
	AuthorDepartment string `json:"user_department"`

	// Likes holds the IDs of users who liked the post; Comments is the
	// append-ordered comment list. Both are computed at query time.
	Likes    []uint    `gorm:"-" json:"likes"`
	Comments []Comment `gorm:"-" json:"comments"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
