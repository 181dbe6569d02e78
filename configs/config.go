package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	Port          string
	Environment   string
	APIKey        string
	DBFile        string
	AdminUsername string
	AdminPassword string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	CoachCacheTTLSec     int
	CoachRetries         int
	CoachBackoffBaseSec  float64
	CoachBackoffCapSec   float64
	CoachMaxOutputTokens int
	CoachTimeoutSec      int
	CoachCooldownSec     int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		APIKey:        getEnv("API_KEY", ""),
		DBFile:        getEnv("DB_FILE", "./data/lifeops.db"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),

		CoachCacheTTLSec:     getEnvInt("COACH_CACHE_TTL_SEC", 900),
		CoachRetries:         getEnvInt("COACH_RETRIES", 3),
		CoachBackoffBaseSec:  getEnvFloat("COACH_BACKOFF_BASE_SEC", 0.8),
		CoachBackoffCapSec:   getEnvFloat("COACH_BACKOFF_CAP_SEC", 8.0),
		CoachMaxOutputTokens: getEnvInt("COACH_MAX_OUTPUT_TOKENS", 800),
		CoachTimeoutSec:      getEnvInt("COACH_TIMEOUT_SEC", 60),
		CoachCooldownSec:     getEnvInt("COACH_COOLDOWN_SEC", 3),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
