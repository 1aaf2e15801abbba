package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hybrid-blog-api/internal/models"
	"github.com/hybrid-blog-api/internal/service"
)

// UserHandler handles user endpoints
type UserHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(services *service.Services, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		services: services,
		log:      log.With().Str("handler", "users").Logger(),
	}
}

// Create handles POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req models.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.services.Users.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, h.log, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.services.Users.List(c.Request.Context())
	if err != nil {
		fail(c, h.log, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// Get handles GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.services.Users.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.log, err, "Failed to get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetWithComments handles GET /users/:id/with-comments
func (h *UserHandler) GetWithComments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.services.Users.GetWithComments(c.Request.Context(), id)
	if err != nil {
		fail(c, h.log, err, "Failed to get user with comments")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update handles PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.services.Users.Update(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, h.log, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Users.Delete(c.Request.Context(), id); err != nil {
		fail(c, h.log, err, "Failed to delete user")
		return
	}
	c.Status(http.StatusNoContent)
}
