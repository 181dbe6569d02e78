package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"lifeops-api/pkg/models"
	"lifeops-api/pkg/services"
)

// CoachHandler serves the coaching report endpoint.
type CoachHandler struct {
	coachService *services.CoachService
	rateLimiter  *services.SessionRateLimiter
}

// NewCoachHandler creates a new coach handler
func NewCoachHandler(coachService *services.CoachService, rateLimiter *services.SessionRateLimiter) *CoachHandler {
	return &CoachHandler{
		coachService: coachService,
		rateLimiter:  rateLimiter,
	}
}

// GenerateReport handles POST /coach/report. An empty body means "all
// defaults". The response is success-shaped even when the AI path failed;
// the model field tells the caller which path produced the report.
func (h *CoachHandler) GenerateReport(c *gin.Context) {
	if err := h.rateLimiter.Allow(c.GetHeader("X-Session-ID")); err != nil {
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": err.Error()})
		return
	}

	// An absent or empty body means "all defaults".
	var req models.CoachRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "malformed request body: " + err.Error()})
			return
		}
	}

	resp, err := h.coachService.GenerateCoachReport(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "days and max_items must not be negative"})
		case errors.Is(err, services.ErrNoLogs):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "no logs available for analysis"})
		case errors.Is(err, services.ErrDataUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "log store unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}
