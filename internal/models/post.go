package models

import (
	"time"
)

// Post represents a blog post. Owned by Store A; AuthorID is an intra-store FK to users.
type Post struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Published bool      `json:"published" db:"published"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Author is filled by Store A reads that join users natively.
	Author *UserRef `json:"author,omitempty" db:"-"`
}

// PostRef is the id/title projection attached to comments read from Store B.
type PostRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Ref projects the post to a PostRef.
func (p *Post) Ref() PostRef {
	return PostRef{ID: p.ID, Title: p.Title}
}

// CreatePostRequest is the payload for POST /posts
type CreatePostRequest struct {
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Published *bool   `json:"published,omitempty"`
	AuthorID  int64   `json:"authorId"`
	TagIDs    []int64 `json:"tagIds,omitempty"`
}

// UpdatePostRequest is the payload for PUT /posts/:id.
// A non-nil TagIDs (even empty) replaces the post's whole tag set.
type UpdatePostRequest struct {
	Title     *string `json:"title,omitempty"`
	Content   *string `json:"content,omitempty"`
	Published *bool   `json:"published,omitempty"`
	TagIDs    []int64 `json:"tagIds"`
}
