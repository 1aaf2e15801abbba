package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hybrid-blog-api/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const (
	maxNameLength  = 255
	maxTitleLength = 255
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Errors is the list of field errors found in one payload. It matches
// models.ErrValidation.
type Errors []ValidationError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, v := range e {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) Is(target error) bool {
	return target == models.ErrValidation
}

// result returns nil for an empty list so callers can return it as an error
func result(errs Errors) error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkEmail(errs Errors, email string) Errors {
	if email == "" {
		return append(errs, ValidationError{Field: "email", Message: "email is required"})
	}
	if !emailRegex.MatchString(email) {
		return append(errs, ValidationError{Field: "email", Message: "invalid email format", Value: email})
	}
	return errs
}

func checkText(errs Errors, field, value string, max int) Errors {
	if strings.TrimSpace(value) == "" {
		return append(errs, ValidationError{Field: field, Message: field + " is required"})
	}
	if max > 0 && len(value) > max {
		return append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s exceeds maximum length of %d", field, max),
		})
	}
	return errs
}

func checkID(errs Errors, field string, id int64) Errors {
	if id <= 0 {
		return append(errs, ValidationError{Field: field, Message: field + " must be a positive integer", Value: id})
	}
	return errs
}

func checkIDs(errs Errors, field string, ids []int64) Errors {
	for _, id := range ids {
		if id <= 0 {
			errs = append(errs, ValidationError{Field: field, Message: "ids must be positive integers", Value: id})
		}
	}
	return errs
}

func checkCommentContent(errs Errors, content string) Errors {
	if strings.TrimSpace(content) == "" {
		return append(errs, ValidationError{Field: "content", Message: "content is required"})
	}
	// Check word count (max 500 words)
	if wordCount := len(strings.Fields(content)); wordCount > models.MaxCommentWords {
		errs = append(errs, ValidationError{
			Field:   "content",
			Message: fmt.Sprintf("content exceeds maximum of %d words (has %d)", models.MaxCommentWords, wordCount),
		})
	}
	return errs
}

// ValidateCreateUser validates a new user payload
func ValidateCreateUser(req *models.CreateUserRequest) error {
	var errs Errors
	errs = checkEmail(errs, req.Email)
	errs = checkText(errs, "name", req.Name, maxNameLength)
	return result(errs)
}

// ValidateUpdateUser validates the fields present in a user update
func ValidateUpdateUser(req *models.UpdateUserRequest) error {
	var errs Errors
	if req.Email != nil {
		errs = checkEmail(errs, *req.Email)
	}
	if req.Name != nil {
		errs = checkText(errs, "name", *req.Name, maxNameLength)
	}
	return result(errs)
}

// ValidateCreatePost validates a new post payload
func ValidateCreatePost(req *models.CreatePostRequest) error {
	var errs Errors
	errs = checkText(errs, "title", req.Title, maxTitleLength)
	errs = checkText(errs, "content", req.Content, 0)
	errs = checkID(errs, "authorId", req.AuthorID)
	errs = checkIDs(errs, "tagIds", req.TagIDs)
	return result(errs)
}

// ValidateUpdatePost validates the fields present in a post update
func ValidateUpdatePost(req *models.UpdatePostRequest) error {
	var errs Errors
	if req.Title != nil {
		errs = checkText(errs, "title", *req.Title, maxTitleLength)
	}
	if req.Content != nil {
		errs = checkText(errs, "content", *req.Content, 0)
	}
	errs = checkIDs(errs, "tagIds", req.TagIDs)
	return result(errs)
}

// ValidateCreateComment validates a new comment payload
func ValidateCreateComment(req *models.CreateCommentRequest) error {
	var errs Errors
	errs = checkCommentContent(errs, req.Content)
	errs = checkID(errs, "userId", req.UserID)
	errs = checkID(errs, "postId", req.PostID)
	return result(errs)
}

// ValidateUpdateComment validates a comment update
func ValidateUpdateComment(req *models.UpdateCommentRequest) error {
	var errs Errors
	if req.Content != nil {
		errs = checkCommentContent(errs, *req.Content)
	}
	return result(errs)
}

// ValidateCreateTag validates a new tag payload
func ValidateCreateTag(req *models.CreateTagRequest) error {
	var errs Errors
	errs = checkText(errs, "name", req.Name, maxNameLength)
	return result(errs)
}

// ValidateUpdateTag validates the fields present in a tag update
func ValidateUpdateTag(req *models.UpdateTagRequest) error {
	var errs Errors
	if req.Name != nil {
		errs = checkText(errs, "name", *req.Name, maxNameLength)
	}
	return result(errs)
}
