package api

import (
	"net/http"

	"github.com/blog-comment-service/internal/models"
	"github.com/blog-comment-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// WordHandler handles sensitive-word rule administration
type WordHandler struct {
	words service.WordService
	log   zerolog.Logger
}

// NewWordHandler creates a new sensitive-word handler
func NewWordHandler(services *service.Services, log zerolog.Logger) *WordHandler {
	return &WordHandler{
		words: services.Word,
		log:   log.With().Str("handler", "word").Logger(),
	}
}

// List handles GET /v1/sensitive-words
func (h *WordHandler) List(c *gin.Context) {
	page, size := queryPage(c)
	status := models.WordStatus(c.Query("status"))

	words, err := h.words.List(c.Request.Context(), c.Query("keyword"), status, page, size)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"words": words,
		"page":  page,
		"size":  size,
	})
}

// Add handles POST /v1/sensitive-words
func (h *WordHandler) Add(c *gin.Context) {
	var req models.SensitiveWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	word, err := h.words.Add(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, word)
}

// Update handles PUT /v1/sensitive-words/:id
func (h *WordHandler) Update(c *gin.Context) {
	var req models.SensitiveWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	word, err := h.words.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, word)
}

// Delete handles DELETE /v1/sensitive-words/:id
func (h *WordHandler) Delete(c *gin.Context) {
	if err := h.words.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "sensitive word deleted"})
}

// SetStatus handles PUT /v1/sensitive-words/:id/status
func (h *WordHandler) SetStatus(c *gin.Context) {
	var req struct {
		Status models.WordStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.words.SetStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

// Preview handles POST /v1/sensitive-words/preview
func (h *WordHandler) Preview(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.words.Preview(c.Request.Context(), req.Text))
}
