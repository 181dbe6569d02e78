package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lifeops-api/pkg/models"
	"lifeops-api/pkg/services"
)

// LogHandler serves the daily-log CRUD, settings, and export endpoints.
type LogHandler struct {
	store  *services.LogStoreService
	export *services.ExportService
}

// NewLogHandler creates a new log handler
func NewLogHandler(store *services.LogStoreService, export *services.ExportService) *LogHandler {
	return &LogHandler{store: store, export: export}
}

// GetState handles GET /state: all logs (newest first), merged goals, theme.
func (h *LogHandler) GetState(c *gin.Context) {
	logs, err := h.store.GetAllLogs()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "log store unavailable"})
		return
	}
	goals, err := h.store.GetGoals()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "log store unavailable"})
		return
	}
	theme, err := h.store.GetTheme()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "log store unavailable"})
		return
	}

	// Newest first for display.
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs, "goals": goals, "theme": theme})
}

// UpsertLog handles POST /logs: insert-or-replace by date after boundary
// validation. The analytics pipeline downstream assumes these bounds hold.
func (h *LogHandler) UpsertLog(c *gin.Context) {
	var entry models.DailyLog
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "malformed request body: " + err.Error()})
		return
	}

	if err := validateLog(entry); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := h.store.UpsertLog(entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to save log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteLog handles DELETE /logs/:date.
func (h *LogHandler) DeleteLog(c *gin.Context) {
	date := c.Param("date")
	if !validDate(date) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "date must be YYYY-MM-DD"})
		return
	}
	if err := h.store.DeleteLog(date); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to delete log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SaveSettings handles PUT /settings: goals merged over named defaults at
// this boundary, theme restricted to dark/light.
func (h *LogHandler) SaveSettings(c *gin.Context) {
	var settings models.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "malformed request body: " + err.Error()})
		return
	}

	merged := models.MergeGoals(settings.Goals)
	theme := settings.Theme
	if theme != "dark" && theme != "light" {
		theme = "dark"
	}

	if err := h.store.SaveSettings(merged, theme); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to save settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "goals": merged, "theme": theme})
}

// ExportLogs handles GET /logs/export: the full log set as an xlsx download.
func (h *LogHandler) ExportLogs(c *gin.Context) {
	logs, err := h.store.GetAllLogs()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "log store unavailable"})
		return
	}
	buf, err := h.export.LogsToXLSX(logs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to build export"})
		return
	}

	filename := fmt.Sprintf("lifeops-logs-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// validateLog enforces the boundary bounds: everything downstream assumes
// validated input and performs no re-validation.
func validateLog(l models.DailyLog) error {
	if !validDate(l.Date) {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	if l.SleepHours < 0 || l.SleepHours > 24 {
		return fmt.Errorf("sleep must be between 0 and 24")
	}
	if l.SleepQuality < 1 || l.SleepQuality > 5 {
		return fmt.Errorf("sleepQual must be between 1 and 5")
	}
	if l.FoodScore < 1 || l.FoodScore > 5 {
		return fmt.Errorf("foodScore must be between 1 and 5")
	}
	if l.Mood < 0 || l.Mood > 10 {
		return fmt.Errorf("mood must be between 0 and 10")
	}
	if l.Anxiety < 0 || l.Anxiety > 10 {
		return fmt.Errorf("anxiety must be between 0 and 10")
	}
	if l.TrainMinutes < 0 || l.TrainMinutes > 600 {
		return fmt.Errorf("trainMin must be between 0 and 600")
	}
	return nil
}

// validDate checks the YYYY-MM-DD calendar format.
func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}
