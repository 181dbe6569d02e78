package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	config "lifeops-api/configs"
	"lifeops-api/pkg/gemini"
	"lifeops-api/pkg/handlers"
	"lifeops-api/pkg/logger"
	"lifeops-api/pkg/services"
)

func main() {
	// Load the .env file if one is present.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	cfg := config.LoadConfig()

	zlog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// Services.
	monitoringService := services.NewMonitoringService()
	store, err := services.NewLogStoreService(cfg.DBFile, zlog)
	if err != nil {
		zlog.Fatal("Failed to open log store", "error", err, "db_file", cfg.DBFile)
	}
	statsService := services.NewStatisticsService()
	riskService := services.NewRiskService()
	offlineService := services.NewOfflineReportService()
	cacheService := services.NewCoachCacheService(time.Duration(cfg.CoachCacheTTLSec) * time.Second)
	geminiClient := gemini.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)
	aiService := services.NewAIReportService(
		geminiClient,
		zlog,
		cfg.CoachRetries,
		time.Duration(cfg.CoachBackoffBaseSec*float64(time.Second)),
		time.Duration(cfg.CoachBackoffCapSec*float64(time.Second)),
		cfg.CoachMaxOutputTokens,
	)
	coachService := services.NewCoachService(
		store,
		statsService,
		riskService,
		offlineService,
		cacheService,
		aiService,
		zlog,
		time.Duration(cfg.CoachTimeoutSec)*time.Second,
	)
	rateLimiter := services.NewSessionRateLimiter(time.Duration(cfg.CoachCooldownSec) * time.Second)
	exportService := services.NewExportService()

	// Handlers.
	logHandler := handlers.NewLogHandler(store, exportService)
	coachHandler := handlers.NewCoachHandler(coachService, rateLimiter)
	adminHandler := handlers.NewAdminHandler(cfg)
	monitoringHandler := handlers.NewMonitoringHandler(monitoringService)

	// Middleware.
	r.Use(monitoringService.LoggingMiddleware())
	r.Use(cors.Default())

	authMiddleware := func(apiKey string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if apiKey == "" {
				c.Next()
				return
			}
			providedKey := c.GetHeader("X-API-KEY")
			if providedKey != apiKey {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			c.Next()
		}
	}

	// Health check endpoint.
	r.GET("/health", handlers.HealthCheck)

	v1 := r.Group("/api/v1")
	v1.Use(authMiddleware(cfg.APIKey))
	{
		// App state and daily logs.
		v1.GET("/state", logHandler.GetState)
		v1.POST("/logs", logHandler.UpsertLog)
		v1.DELETE("/logs/:date", logHandler.DeleteLog)
		v1.GET("/logs/export", logHandler.ExportLogs)
		v1.PUT("/settings", logHandler.SaveSettings)

		// Coaching API.
		v1.POST("/coach/report", coachHandler.GenerateReport)

		// Admin API.
		admin := v1.Group("/admin")
		{
			admin.GET("/health-status", adminHandler.GetHealthStatus)
			admin.POST("/maintenance/start", adminHandler.StartMaintenance)
			admin.POST("/maintenance/stop", adminHandler.StopMaintenance)
		}

		// Monitoring API.
		monitoring := v1.Group("/monitoring")
		{
			monitoring.GET("/logs", monitoringHandler.GetLogs)
		}
	}

	zlog.Info("Starting LifeOps API server", "port", cfg.Port, "model", cfg.GeminiModel)
	if err := r.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("Failed to start server", "error", err)
	}
}
