package handler

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	config "lifeops-api/configs"
	"lifeops-api/pkg/gemini"
	"lifeops-api/pkg/handlers"
	"lifeops-api/pkg/logger"
	"lifeops-api/pkg/services"
)

var (
	app  *gin.Engine
	once sync.Once
)

// setupApp initializes the Gin application once. In a serverless environment
// the process can be reused across requests, so sync.Once keeps the service
// graph from being rebuilt on every invocation.
func setupApp() *gin.Engine {
	once.Do(func() {
		// Environment variables come from the platform configuration, so
		// godotenv is not needed here.
		cfg := config.LoadConfig()

		zlog, err := logger.New(cfg.Environment)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}

		gin.SetMode(gin.ReleaseMode)
		r := gin.Default()

		monitoringService := services.NewMonitoringService()
		store, err := services.NewLogStoreService(cfg.DBFile, zlog)
		if err != nil {
			zlog.Fatal("Failed to open log store", "error", err, "db_file", cfg.DBFile)
		}
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
			services.NewStatisticsService(),
			services.NewRiskService(),
			services.NewOfflineReportService(),
			cacheService,
			aiService,
			zlog,
			time.Duration(cfg.CoachTimeoutSec)*time.Second,
		)
		rateLimiter := services.NewSessionRateLimiter(time.Duration(cfg.CoachCooldownSec) * time.Second)

		logHandler := handlers.NewLogHandler(store, services.NewExportService())
		coachHandler := handlers.NewCoachHandler(coachService, rateLimiter)
		adminHandler := handlers.NewAdminHandler(cfg)
		monitoringHandler := handlers.NewMonitoringHandler(monitoringService)

		r.Use(monitoringService.LoggingMiddleware())
		r.Use(cors.Default())

		authMiddleware := func(apiKey string) gin.HandlerFunc {
			return func(c *gin.Context) {
				if apiKey == "" {
					c.Next()
					return
				}
				if c.GetHeader("X-API-KEY") != apiKey {
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
					return
				}
				c.Next()
			}
		}

		r.GET("/health", handlers.HealthCheck)

		v1 := r.Group("/api/v1")
		v1.Use(authMiddleware(cfg.APIKey))
		{
			v1.GET("/state", logHandler.GetState)
			v1.POST("/logs", logHandler.UpsertLog)
			v1.DELETE("/logs/:date", logHandler.DeleteLog)
			v1.GET("/logs/export", logHandler.ExportLogs)
			v1.PUT("/settings", logHandler.SaveSettings)

			v1.POST("/coach/report", coachHandler.GenerateReport)

			admin := v1.Group("/admin")
			{
				admin.GET("/health-status", adminHandler.GetHealthStatus)
				admin.POST("/maintenance/start", adminHandler.StartMaintenance)
				admin.POST("/maintenance/stop", adminHandler.StopMaintenance)
			}

			monitoring := v1.Group("/monitoring")
			{
				monitoring.GET("/logs", monitoringHandler.GetLogs)
			}
		}

		app = r
	})
	return app
}

// Handler is the serverless entrypoint.
func Handler(w http.ResponseWriter, r *http.Request) {
	setupApp().ServeHTTP(w, r)
}
