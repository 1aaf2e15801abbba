package models

import (
	"time"
)

// Comment represents a comment on a post. Owned by Store B.
// UserID and PostID name Store A rows and are only checked at creation time.
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	UserID    int64     `json:"userId" db:"user_id"`
	PostID    int64     `json:"postId" db:"post_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateCommentRequest is the payload for POST /comments
type CreateCommentRequest struct {
	Content string `json:"content"`
	UserID  int64  `json:"userId"`
	PostID  int64  `json:"postId"`
}

// UpdateCommentRequest is the payload for PUT /comments/:id
type UpdateCommentRequest struct {
	Content *string `json:"content,omitempty"`
}

// MaxCommentWords is the maximum allowed words in a comment body
const MaxCommentWords = 500
