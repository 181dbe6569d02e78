package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	// Set environment variables for the test.
	testCases := map[string]string{
		"PORT":                "9090",
		"ENVIRONMENT":         "test",
		"API_KEY":             "test-api-key",
		"DB_FILE":             "/tmp/lifeops-test.db",
		"GEMINI_API_KEY":      "test-gemini-key",
		"GEMINI_MODEL":        "gemini-test",
		"COACH_CACHE_TTL_SEC": "120",
		"COACH_RETRIES":       "5",
	}

	for key, value := range testCases {
		os.Setenv(key, value)
	}

	// Clean up after the test.
	defer func() {
		for key := range testCases {
			os.Unsetenv(key)
		}
	}()

	cfg := LoadConfig()

	if cfg.Port != "9090" {
		t.Errorf("Expected Port to be '9090', got '%s'", cfg.Port)
	}

	if cfg.Environment != "test" {
		t.Errorf("Expected Environment to be 'test', got '%s'", cfg.Environment)
	}

	if cfg.APIKey != "test-api-key" {
		t.Errorf("Expected APIKey to be 'test-api-key', got '%s'", cfg.APIKey)
	}

	if cfg.GeminiAPIKey != "test-gemini-key" {
		t.Errorf("Expected GeminiAPIKey to be 'test-gemini-key', got '%s'", cfg.GeminiAPIKey)
	}

	if cfg.GeminiModel != "gemini-test" {
		t.Errorf("Expected GeminiModel to be 'gemini-test', got '%s'", cfg.GeminiModel)
	}

	if cfg.CoachCacheTTLSec != 120 {
		t.Errorf("Expected CoachCacheTTLSec to be 120, got %d", cfg.CoachCacheTTLSec)
	}

	if cfg.CoachRetries != 5 {
		t.Errorf("Expected CoachRetries to be 5, got %d", cfg.CoachRetries)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	vars := []string{
		"PORT", "ENVIRONMENT", "API_KEY", "DB_FILE",
		"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL",
		"COACH_CACHE_TTL_SEC", "COACH_RETRIES", "COACH_BACKOFF_BASE_SEC",
		"COACH_BACKOFF_CAP_SEC", "COACH_MAX_OUTPUT_TOKENS",
		"COACH_TIMEOUT_SEC", "COACH_COOLDOWN_SEC",
	}

	for _, v := range vars {
		os.Unsetenv(v)
	}

	cfg := LoadConfig()

	if cfg.Port != "8080" {
		t.Errorf("Expected default Port to be '8080', got '%s'", cfg.Port)
	}

	if cfg.Environment != "development" {
		t.Errorf("Expected default Environment to be 'development', got '%s'", cfg.Environment)
	}

	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("Expected default GeminiModel to be 'gemini-2.5-flash', got '%s'", cfg.GeminiModel)
	}

	if cfg.CoachCacheTTLSec != 900 {
		t.Errorf("Expected default CoachCacheTTLSec to be 900, got %d", cfg.CoachCacheTTLSec)
	}

	if cfg.CoachBackoffBaseSec != 0.8 {
		t.Errorf("Expected default CoachBackoffBaseSec to be 0.8, got %f", cfg.CoachBackoffBaseSec)
	}

	if cfg.CoachCooldownSec != 3 {
		t.Errorf("Expected default CoachCooldownSec to be 3, got %d", cfg.CoachCooldownSec)
	}
}

func TestGetEnvIntInvalidFallsBack(t *testing.T) {
	os.Setenv("COACH_RETRIES", "not-a-number")
	defer os.Unsetenv("COACH_RETRIES")

	cfg := LoadConfig()
	if cfg.CoachRetries != 3 {
		t.Errorf("Expected invalid COACH_RETRIES to fall back to 3, got %d", cfg.CoachRetries)
	}
}
