package models

import (
	"time"
)

// Tag is a post label. Owned by Store B.
type Tag struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// TagRef is the id/name projection attached to enriched posts.
type TagRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Ref projects the tag to a TagRef.
func (t *Tag) Ref() TagRef {
	return TagRef{ID: t.ID, Name: t.Name}
}

// PostTag is the association bridge row. It lives in Store B but PostID names a Store A row.
type PostTag struct {
	PostID    int64     `json:"postId" db:"post_id"`
	TagID     int64     `json:"tagId" db:"tag_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CreateTagRequest is the payload for POST /tags
type CreateTagRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// UpdateTagRequest is the payload for PUT /tags/:id
type UpdateTagRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// DefaultPopularTagsLimit is used when /tags/popular has no limit.
const DefaultPopularTagsLimit = 10

// MaxPopularTagsLimit caps the number of tags /tags/popular returns.
const MaxPopularTagsLimit = 100
