package models

import (
	"time"
)

// User represents a blog user. Owned by Store A.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	Bio       *string   `json:"bio,omitempty" db:"bio"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// UserRef is the id/name/email projection attached to comments read from Store B.
type UserRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Ref projects the user to a UserRef.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

// CreateUserRequest is the payload for POST /users
type CreateUserRequest struct {
	Email string  `json:"email"`
	Name  string  `json:"name"`
	Bio   *string `json:"bio,omitempty"`
}

// UpdateUserRequest is the payload for PUT /users/:id. Nil fields are left untouched.
type UpdateUserRequest struct {
	Email *string `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
	Bio   *string `json:"bio,omitempty"`
}
