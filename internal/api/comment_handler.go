package api

import (
	"net/http"
	"strconv"

	"github.com/blog-comment-service/internal/config"
	"github.com/blog-comment-service/internal/models"
	"github.com/blog-comment-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	comments service.CommentService
	cfg      *config.Config
	log      zerolog.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		comments: services.Comment,
		cfg:      cfg,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// Create handles POST /v1/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), &req, currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// Update handles PUT /v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	var req models.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), c.Param("id"), &req, currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// Delete handles DELETE /v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.comments.Delete(c.Request.Context(), c.Param("id"), currentUser(c)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

// Like handles POST /v1/comments/:id/like
func (h *CommentHandler) Like(c *gin.Context) {
	if err := h.comments.Like(c.Request.Context(), c.Param("id"), currentUser(c)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment liked"})
}

// Unlike handles DELETE /v1/comments/:id/like
func (h *CommentHandler) Unlike(c *gin.Context) {
	if err := h.comments.Unlike(c.Request.Context(), c.Param("id"), currentUser(c)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "like removed"})
}

// HasLiked handles GET /v1/comments/:id/liked
func (h *CommentHandler) HasLiked(c *gin.Context) {
	liked, err := h.comments.HasLiked(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// ListByArticle handles GET /v1/comments
func (h *CommentHandler) ListByArticle(c *gin.Context) {
	var query models.CommentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	comments, err := h.comments.GetByArticle(c.Request.Context(), &query)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"page":     query.Page,
		"size":     query.Size,
	})
}

// GetTree handles GET /v1/comments/tree
func (h *CommentHandler) GetTree(c *gin.Context) {
	articleID := c.Query("article_id")
	if articleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "article_id is required"})
		return
	}

	tree, err := h.comments.GetNested(c.Request.Context(), articleID, c.Query("sort_by"), c.Query("sort_order"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": tree})
}

// Count handles GET /v1/comments/count
func (h *CommentHandler) Count(c *gin.Context) {
	articleID := c.Query("article_id")
	if articleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "article_id is required"})
		return
	}

	count, err := h.comments.CountByArticle(c.Request.Context(), articleID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"article_id": articleID, "count": count})
}

// ListByUser handles GET /v1/users/:user_id/comments
func (h *CommentHandler) ListByUser(c *gin.Context) {
	page, size := queryPage(c)

	comments, err := h.comments.GetByUser(c.Request.Context(), c.Param("user_id"), page, size)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"page":     page,
		"size":     size,
	})
}

// queryPage reads page/size query params, zero when absent or malformed;
// services apply the defaults.
func queryPage(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))
	return page, size
}
