package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hybrid-blog-api/internal/models"
	"github.com/hybrid-blog-api/internal/validation"
)

// respondError maps the error taxonomy onto HTTP statuses
func respondError(c *gin.Context, err error) {
	var (
		notFound *models.NotFoundError
		invalid  validation.Errors
	)

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": notFound.Error(),
			"kind":  notFound.Kind,
			"id":    notFound.ID,
		})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"errors": []validation.ValidationError(invalid),
		})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrStoreUnavailable):
		var unavailable *models.StoreUnavailableError
		store := ""
		if errors.As(err, &unavailable) {
			store = string(unavailable.Store)
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "store unavailable",
			"store": store,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
	c.Error(err)
}

// fail logs infrastructure failures before responding. Client errors are
// left to the request log.
func fail(c *gin.Context, log zerolog.Logger, err error, msg string) {
	if !isClientError(err) {
		log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg(msg)
	}
	respondError(c, err)
}

func isClientError(err error) bool {
	return errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrValidation) ||
		errors.Is(err, models.ErrConflict)
}

// badRequest responds 400 with a plain message
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// parseID reads a positive integer path parameter, responding 400 otherwise
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, fmt.Sprintf("%s must be a positive integer", name))
		return 0, false
	}
	return id, true
}

// bindJSON decodes the request body, responding 400 on malformed input
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}
