package api

import (
	"net/http"

	"github.com/blog-comment-service/internal/apperr"
	"github.com/blog-comment-service/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// requireUser extracts the verified caller identity. Authentication happens
// upstream; this service trusts the X-User-ID header it receives.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// currentUser returns the caller identity set by requireUser
func currentUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// ipLimitMiddleware applies the in-process per-IP token bucket in front of
// every endpoint.
func ipLimitMiddleware(limiter *ratelimit.IPLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

// writeError maps an application error onto an HTTP response. Unclassified
// errors become opaque 500s; their detail stays in the logs.
func writeError(c *gin.Context, err error) {
	if e, ok := apperr.As(err); ok {
		status := http.StatusInternalServerError
		switch e.Kind {
		case apperr.KindValidation:
			status = http.StatusBadRequest
		case apperr.KindPolicy:
			status = http.StatusUnprocessableEntity
			if e.Code == apperr.CodeRateLimited {
				status = http.StatusTooManyRequests
			}
		case apperr.KindPermission:
			status = http.StatusForbidden
		case apperr.KindNotFound:
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": e.Message, "code": e.Code})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
