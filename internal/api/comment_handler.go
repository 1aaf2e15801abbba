package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hybrid-blog-api/internal/models"
	"github.com/hybrid-blog-api/internal/service"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comments").Logger(),
	}
}

// Create handles POST /comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req models.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.services.Comments.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, h.log, err, "Failed to create comment")
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// List handles GET /comments
func (h *CommentHandler) List(c *gin.Context) {
	comments, err := h.services.Comments.List(c.Request.Context())
	if err != nil {
		fail(c, h.log, err, "Failed to list comments")
		return
	}
	c.JSON(http.StatusOK, comments)
}

// ListByPost handles GET /comments/post/:postId
func (h *CommentHandler) ListByPost(c *gin.Context) {
	postID, ok := parseID(c, "postId")
	if !ok {
		return
	}

	comments, err := h.services.Comments.ListByPost(c.Request.Context(), postID)
	if err != nil {
		fail(c, h.log, err, "Failed to list comments by post")
		return
	}
	c.JSON(http.StatusOK, comments)
}

// ListByUser handles GET /comments/user/:userId
func (h *CommentHandler) ListByUser(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	comments, err := h.services.Comments.ListByUser(c.Request.Context(), userID)
	if err != nil {
		fail(c, h.log, err, "Failed to list comments by user")
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Get handles GET /comments/:id
func (h *CommentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	comment, err := h.services.Comments.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.log, err, "Failed to get comment")
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Update handles PUT /comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.services.Comments.Update(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, h.log, err, "Failed to update comment")
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete handles DELETE /comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Comments.Delete(c.Request.Context(), id); err != nil {
		fail(c, h.log, err, "Failed to delete comment")
		return
	}
	c.Status(http.StatusNoContent)
}
