package handlers

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	config "lifeops-api/configs"
)

// isMaintenanceMode marks whether the server is in maintenance mode.
// atomic.Bool keeps reads and writes thread-safe across handlers.
var isMaintenanceMode atomic.Bool

// AdminHandler serves operator-only actions.
type AdminHandler struct {
	AdminUsername string
	AdminPassword string
	cfg           *config.Config
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(cfg *config.Config) *AdminHandler {
	return &AdminHandler{
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
		cfg:           cfg,
	}
}

// AdminCredentials is the request body for admin authentication.
type AdminCredentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AdminHandler) authorize(c *gin.Context) bool {
	var input AdminCredentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return false
	}
	if input.Username != h.AdminUsername || input.Password != h.AdminPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return false
	}
	return true
}

// StartMaintenance puts the server into maintenance mode.
func (h *AdminHandler) StartMaintenance(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	isMaintenanceMode.Store(true)
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance mode started"})
}

// StopMaintenance takes the server out of maintenance mode.
func (h *AdminHandler) StopMaintenance(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	isMaintenanceMode.Store(false)
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance mode stopped"})
}

// GetHealthStatus reports the current server state plus the coaching
// pipeline configuration, so an operator can confirm what the deployment
// is actually running with.
func (h *AdminHandler) GetHealthStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"isMaintenanceMode": isMaintenanceMode.Load(),
		"coach": gin.H{
			"provider_configured": h.cfg.GeminiAPIKey != "",
			"model":               h.cfg.GeminiModel,
			"cache_ttl_sec":       h.cfg.CoachCacheTTLSec,
			"retries":             h.cfg.CoachRetries,
			"cooldown_sec":        h.cfg.CoachCooldownSec,
		},
	})
}

// HealthCheck answers external health probes (e.g. a load balancer).
func HealthCheck(c *gin.Context) {
	if isMaintenanceMode.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": "Server is in maintenance mode"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
