package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hybrid-blog-api/internal/models"
	"github.com/hybrid-blog-api/internal/service"
)

// PostHandler handles post endpoints
type PostHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(services *service.Services, log zerolog.Logger) *PostHandler {
	return &PostHandler{
		services: services,
		log:      log.With().Str("handler", "posts").Logger(),
	}
}

// Create handles POST /posts
func (h *PostHandler) Create(c *gin.Context) {
	var req models.CreatePostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.services.Posts.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, h.log, err, "Failed to create post")
		return
	}
	c.JSON(http.StatusCreated, post)
}

// List handles GET /posts
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.services.Posts.List(c.Request.Context())
	if err != nil {
		fail(c, h.log, err, "Failed to list posts")
		return
	}
	c.JSON(http.StatusOK, posts)
}

// ListByAuthor handles GET /posts/author/:authorId
func (h *PostHandler) ListByAuthor(c *gin.Context) {
	authorID, ok := parseID(c, "authorId")
	if !ok {
		return
	}

	posts, err := h.services.Posts.ListByAuthor(c.Request.Context(), authorID)
	if err != nil {
		fail(c, h.log, err, "Failed to list posts by author")
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Get handles GET /posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	post, err := h.services.Posts.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.log, err, "Failed to get post")
		return
	}
	c.JSON(http.StatusOK, post)
}

// GetWithDetails handles GET /posts/:id/with-details
func (h *PostHandler) GetWithDetails(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	details, err := h.services.Posts.GetWithDetails(c.Request.Context(), id)
	if err != nil {
		fail(c, h.log, err, "Failed to get post details")
		return
	}
	c.JSON(http.StatusOK, details)
}

// Update handles PUT /posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.UpdatePostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.services.Posts.Update(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, h.log, err, "Failed to update post")
		return
	}
	c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Posts.Delete(c.Request.Context(), id); err != nil {
		fail(c, h.log, err, "Failed to delete post")
		return
	}
	c.Status(http.StatusNoContent)
}

// LinkTag handles POST /posts/:id/tags/:tagId
func (h *PostHandler) LinkTag(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	tagID, ok := parseID(c, "tagId")
	if !ok {
		return
	}

	created, err := h.services.Posts.LinkTag(c.Request.Context(), postID, tagID)
	if err != nil {
		fail(c, h.log, err, "Failed to link tag")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"message": fmt.Sprintf("Post %d linked to tag %d", postID, tagID),
		"created": created,
	})
}

// Tags handles GET /posts/:id/tags
func (h *PostHandler) Tags(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	tags, err := h.services.Posts.Tags(c.Request.Context(), id)
	if err != nil {
		fail(c, h.log, err, "Failed to get post tags")
		return
	}
	c.JSON(http.StatusOK, tags)
}
