package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hybrid-blog-api/internal/models"
	"github.com/hybrid-blog-api/internal/service"
)

// TagHandler handles tag endpoints
type TagHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(services *service.Services, log zerolog.Logger) *TagHandler {
	return &TagHandler{
		services: services,
		log:      log.With().Str("handler", "tags").Logger(),
	}
}

// Create handles POST /tags
func (h *TagHandler) Create(c *gin.Context) {
	var req models.CreateTagRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := h.services.Tags.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, h.log, err, "Failed to create tag")
		return
	}
	c.JSON(http.StatusCreated, tag)
}

// List handles GET /tags
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.services.Tags.List(c.Request.Context())
	if err != nil {
		fail(c, h.log, err, "Failed to list tags")
		return
	}
	c.JSON(http.StatusOK, tags)
}

// Popular handles GET /tags/popular?limit=N
func (h *TagHandler) Popular(c *gin.Context) {
	limit := models.DefaultPopularTagsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > models.MaxPopularTagsLimit {
			badRequest(c, fmt.Sprintf("limit must be an integer between 1 and %d", models.MaxPopularTagsLimit))
			return
		}
		limit = n
	}

	tags, err := h.services.Tags.Popular(c.Request.Context(), limit)
	if err != nil {
		fail(c, h.log, err, "Failed to get popular tags")
		return
	}
	c.JSON(http.StatusOK, tags)
}

// Get handles GET /tags/:id
func (h *TagHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	tag, err := h.services.Tags.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.log, err, "Failed to get tag")
		return
	}
	c.JSON(http.StatusOK, tag)
}

// GetWithPosts handles GET /tags/:id/with-posts
func (h *TagHandler) GetWithPosts(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	tag, err := h.services.Tags.GetWithPosts(c.Request.Context(), id)
	if err != nil {
		fail(c, h.log, err, "Failed to get tag with posts")
		return
	}
	c.JSON(http.StatusOK, tag)
}

// Update handles PUT /tags/:id
func (h *TagHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateTagRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := h.services.Tags.Update(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, h.log, err, "Failed to update tag")
		return
	}
	c.JSON(http.StatusOK, tag)
}

// Delete handles DELETE /tags/:id
func (h *TagHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Tags.Delete(c.Request.Context(), id); err != nil {
		fail(c, h.log, err, "Failed to delete tag")
		return
	}
	c.Status(http.StatusNoContent)
}
