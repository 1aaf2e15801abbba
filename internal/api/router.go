package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hybrid-blog-api/internal/config"
	"github.com/hybrid-blog-api/internal/service"
)

const (
	serviceName     = "hybrid-blog-api"
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	users := NewUserHandler(services, log)
	posts := NewPostHandler(services, log)
	comments := NewCommentHandler(services, log)
	tags := NewTagHandler(services, log)

	// Status
	router.GET("/health", healthCheck(services))
	router.GET("/info", infoHandler(cfg))
	router.GET("/metrics", metricsHandler(services))

	userRoutes := router.Group("/users")
	{
		userRoutes.POST("", users.Create)
		userRoutes.GET("", users.List)
		userRoutes.GET("/:id", users.Get)
		userRoutes.GET("/:id/with-comments", users.GetWithComments)
		userRoutes.PUT("/:id", users.Update)
		userRoutes.DELETE("/:id", users.Delete)
	}

	postRoutes := router.Group("/posts")
	{
		postRoutes.POST("", posts.Create)
		postRoutes.GET("", posts.List)
		postRoutes.GET("/author/:authorId", posts.ListByAuthor)
		postRoutes.GET("/:id", posts.Get)
		postRoutes.GET("/:id/with-details", posts.GetWithDetails)
		postRoutes.GET("/:id/tags", posts.Tags)
		postRoutes.POST("/:id/tags/:tagId", posts.LinkTag)
		postRoutes.PUT("/:id", posts.Update)
		postRoutes.DELETE("/:id", posts.Delete)
	}

	commentRoutes := router.Group("/comments")
	{
		commentRoutes.POST("", comments.Create)
		commentRoutes.GET("", comments.List)
		commentRoutes.GET("/post/:postId", comments.ListByPost)
		commentRoutes.GET("/user/:userId", comments.ListByUser)
		commentRoutes.GET("/:id", comments.Get)
		commentRoutes.PUT("/:id", comments.Update)
		commentRoutes.DELETE("/:id", comments.Delete)
	}

	tagRoutes := router.Group("/tags")
	{
		tagRoutes.POST("", tags.Create)
		tagRoutes.GET("", tags.List)
		tagRoutes.GET("/popular", tags.Popular)
		tagRoutes.GET("/:id", tags.Get)
		tagRoutes.GET("/:id/with-posts", tags.GetWithPosts)
		tagRoutes.PUT("/:id", tags.Update)
		tagRoutes.DELETE("/:id", tags.Delete)
	}

	return router
}

// healthCheck pings both stores; either one down makes the service unhealthy
func healthCheck(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := services.Status.Health(c.Request.Context())

		status := http.StatusOK
		if !report.Healthy() {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status":    report.Status,
			"stores":    report.Stores,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   serviceName,
		})
	}
}

// infoHandler describes how entities are split between the stores
func infoHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": serviceName,
			"stores": gin.H{
				"A": gin.H{"database": cfg.StoreA.Name, "driver": "lib/pq", "entities": []string{"users", "posts"}},
				"B": gin.H{"database": cfg.StoreB.Name, "driver": "pgx", "entities": []string{"comments", "tags", "post_tags"}},
			},
			"crossStoreCascade": cfg.CrossStoreCascade,
		})
	}
}

// metricsHandler returns row counts from both stores
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics, err := services.Status.Metrics(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"database":  metrics,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// requestIDMiddleware propagates X-Request-ID or assigns a new one
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("request_id", c.GetString(requestIDKey)).
					Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
