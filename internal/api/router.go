package api

import (
	"net/http"
	"time"

	"github.com/blog-comment-service/internal/config"
	"github.com/blog-comment-service/internal/ratelimit"
	"github.com/blog-comment-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, ipLimiter *ratelimit.IPLimiter, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())
	if ipLimiter != nil {
		router.Use(ipLimitMiddleware(ipLimiter))
	}

	// Handlers
	commentHandler := NewCommentHandler(services, cfg, log)
	moderationHandler := NewModerationHandler(services, log)
	wordHandler := NewWordHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)

	// API v1
	v1 := router.Group("/v1")
	{
		comments := v1.Group("/comments")
		{
			comments.GET("", commentHandler.ListByArticle)
			comments.GET("/tree", commentHandler.GetTree)
			comments.GET("/count", commentHandler.Count)
			comments.POST("", requireUser(), commentHandler.Create)
			comments.PUT("/:id", requireUser(), commentHandler.Update)
			comments.DELETE("/:id", requireUser(), commentHandler.Delete)
			comments.POST("/:id/like", requireUser(), commentHandler.Like)
			comments.DELETE("/:id/like", requireUser(), commentHandler.Unlike)
			comments.GET("/:id/liked", requireUser(), commentHandler.HasLiked)
			comments.POST("/:id/report", requireUser(), moderationHandler.Report)
		}

		users := v1.Group("/users")
		{
			users.GET("/:user_id/comments", commentHandler.ListByUser)
		}

		moderation := v1.Group("/moderation", requireUser())
		{
			moderation.GET("/reports", moderationHandler.ListReports)
			moderation.POST("/reports/:id/review", moderationHandler.Review)
			moderation.GET("/comments/:id/reports", moderationHandler.ReportsByComment)
			moderation.POST("/comments/:id", moderationHandler.Moderate)
			moderation.POST("/comments/batch", moderationHandler.BatchModerate)
			moderation.GET("/statistics/comments", moderationHandler.CommentStats)
			moderation.GET("/statistics/reports", moderationHandler.ReportStats)

			blacklist := moderation.Group("/blacklist")
			{
				blacklist.GET("", moderationHandler.ListBlacklist)
				blacklist.POST("", moderationHandler.AddToBlacklist)
				blacklist.DELETE("/:user_id", moderationHandler.RemoveFromBlacklist)
			}
		}

		words := v1.Group("/sensitive-words", requireUser())
		{
			words.GET("", wordHandler.List)
			words.POST("", wordHandler.Add)
			words.PUT("/:id", wordHandler.Update)
			words.DELETE("/:id", wordHandler.Delete)
			words.PUT("/:id/status", wordHandler.SetStatus)
			words.POST("/preview", wordHandler.Preview)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "blog-comment-service",
	})
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
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
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
