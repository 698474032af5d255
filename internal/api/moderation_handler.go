package api

import (
	"net/http"

	"github.com/blog-comment-service/internal/models"
	"github.com/blog-comment-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ModerationHandler handles report, moderation and blacklist endpoints
type ModerationHandler struct {
	moderation service.ModerationService
	log        zerolog.Logger
}

// NewModerationHandler creates a new moderation handler
func NewModerationHandler(services *service.Services, log zerolog.Logger) *ModerationHandler {
	return &ModerationHandler{
		moderation: services.Moderation,
		log:        log.With().Str("handler", "moderation").Logger(),
	}
}

// Report handles POST /v1/comments/:id/report
func (h *ModerationHandler) Report(c *gin.Context) {
	var req models.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	report, err := h.moderation.ReportComment(c.Request.Context(), c.Param("id"), currentUser(c), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

// Review handles POST /v1/moderation/reports/:id/review
func (h *ModerationHandler) Review(c *gin.Context) {
	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.moderation.ReviewReport(c.Request.Context(), c.Param("id"), currentUser(c), &req); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "report reviewed"})
}

// ListReports handles GET /v1/moderation/reports
func (h *ModerationHandler) ListReports(c *gin.Context) {
	page, size := queryPage(c)
	status := models.ReportStatus(c.Query("status"))

	reports, err := h.moderation.ListReports(c.Request.Context(), status, c.Query("keyword"), page, size)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"page":    page,
		"size":    size,
	})
}

// ReportsByComment handles GET /v1/moderation/comments/:id/reports
func (h *ModerationHandler) ReportsByComment(c *gin.Context) {
	reports, err := h.moderation.ReportsByComment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// Moderate handles POST /v1/moderation/comments/:id
func (h *ModerationHandler) Moderate(c *gin.Context) {
	var req models.ModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.moderation.ModerateComment(c.Request.Context(), c.Param("id"), req.Action, currentUser(c), req.Reason); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment moderated"})
}

// BatchModerate handles POST /v1/moderation/comments/batch
func (h *ModerationHandler) BatchModerate(c *gin.Context) {
	var req models.BatchModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if len(req.CommentIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment_ids must not be empty"})
		return
	}

	results := h.moderation.BatchModerate(c.Request.Context(), req.CommentIDs, req.Action, currentUser(c), req.Reason)

	succeeded := 0
	for _, r := range results {
		if r.OK {
			succeeded++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"results":   results,
		"total":     len(results),
		"succeeded": succeeded,
		"failed":    len(results) - succeeded,
	})
}

// AddToBlacklist handles POST /v1/moderation/blacklist
func (h *ModerationHandler) AddToBlacklist(c *gin.Context) {
	var req models.BlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	entry, err := h.moderation.AddToBlacklist(c.Request.Context(), &req, currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// RemoveFromBlacklist handles DELETE /v1/moderation/blacklist/:user_id
func (h *ModerationHandler) RemoveFromBlacklist(c *gin.Context) {
	if err := h.moderation.RemoveFromBlacklist(c.Request.Context(), c.Param("user_id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user removed from blacklist"})
}

// ListBlacklist handles GET /v1/moderation/blacklist
func (h *ModerationHandler) ListBlacklist(c *gin.Context) {
	entries, err := h.moderation.ListBlacklist(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"blacklist": entries})
}

// CommentStats handles GET /v1/moderation/statistics/comments
func (h *ModerationHandler) CommentStats(c *gin.Context) {
	stats, err := h.moderation.CommentStats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ReportStats handles GET /v1/moderation/statistics/reports
func (h *ModerationHandler) ReportStats(c *gin.Context) {
	stats, err := h.moderation.ReportStats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
