package models

import "time"

// Like records one user's like on a post. The (UserID, PostID) pair is
// unique, which makes a post's likes a proper set: inserting with
// ON CONFLICT DO NOTHING is an atomic add-to-set and deleting the row is
// an atomic remove.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
