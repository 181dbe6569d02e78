package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lifeops-api/pkg/logger"
	"lifeops-api/pkg/models"
)

// appState is the singleton settings row (goals JSON + theme).
type appState struct {
	ID        int    `gorm:"primaryKey"`
	GoalsJSON string `gorm:"column:goals_json;not null"`
	Theme     string `gorm:"not null"`
}

func (appState) TableName() string { return "app_state" }

// LogStoreService persists daily logs and the settings singleton in SQLite.
type LogStoreService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewLogStoreService opens (and if needed creates) the SQLite database at
// dbFile, migrates the schema, and seeds the settings row with defaults.
// Use ":memory:" for an ephemeral store.
func NewLogStoreService(dbFile string, logg *logger.Logger) (*LogStoreService, error) {
	if dir := filepath.Dir(dbFile); dir != "" && dir != "." && dbFile != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbFile), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.AutoMigrate(&models.DailyLog{}, &appState{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	s := &LogStoreService{db: db, log: logg.With("service", "LogStoreService")}
	if err := s.seedState(); err != nil {
		return nil, err
	}
	return s, nil
}

// seedState inserts the settings row once; an existing row is left alone.
func (s *LogStoreService) seedState() error {
	goalsJSON, err := json.Marshal(models.DefaultGoals())
	if err != nil {
		return fmt.Errorf("failed to encode default goals: %w", err)
	}
	state := appState{ID: 1, GoalsJSON: string(goalsJSON), Theme: "dark"}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&state).Error; err != nil {
		return fmt.Errorf("failed to seed app state: %w", err)
	}
	return nil
}

// GetAllLogs returns every daily log ascending by date.
func (s *LogStoreService) GetAllLogs() ([]models.DailyLog, error) {
	var logs []models.DailyLog
	if err := s.db.Order("date asc").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	return logs, nil
}

// GetRecentLogs returns up to limit of the newest logs, ascending by date.
func (s *LogStoreService) GetRecentLogs(limit int) ([]models.DailyLog, error) {
	var logs []models.DailyLog
	if err := s.db.Order("date desc").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	// Reverse into ascending order for the statistics engine.
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	return logs, nil
}

// UpsertLog inserts or replaces the record for its date. Re-submitting a
// date overwrites, never duplicates.
func (s *LogStoreService) UpsertLog(entry models.DailyLog) error {
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		UpdateAll: true,
	}).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to upsert log for %s: %w", entry.Date, err)
	}
	return nil
}

// DeleteLog removes the record for the given date, if any.
func (s *LogStoreService) DeleteLog(date string) error {
	if err := s.db.Where("date = ?", date).Delete(&models.DailyLog{}).Error; err != nil {
		return fmt.Errorf("failed to delete log for %s: %w", date, err)
	}
	return nil
}

// GetGoals reads the goals baseline, merged over the named defaults so a
// partial or corrupted row still yields a usable snapshot.
func (s *LogStoreService) GetGoals() (models.Goals, error) {
	state, err := s.getState()
	if err != nil {
		return models.Goals{}, err
	}
	var in models.GoalsInput
	if err := json.Unmarshal([]byte(state.GoalsJSON), &in); err != nil {
		s.log.Warn("unreadable goals row, using defaults", "error", err.Error())
		return models.DefaultGoals(), nil
	}
	return models.MergeGoals(in), nil
}

// GetTheme reads the stored UI theme.
func (s *LogStoreService) GetTheme() (string, error) {
	state, err := s.getState()
	if err != nil {
		return "", err
	}
	if state.Theme != "dark" && state.Theme != "light" {
		return "dark", nil
	}
	return state.Theme, nil
}

// SaveSettings replaces the goals baseline and theme.
func (s *LogStoreService) SaveSettings(goals models.Goals, theme string) error {
	goalsJSON, err := json.Marshal(goals)
	if err != nil {
		return fmt.Errorf("failed to encode goals: %w", err)
	}
	if theme != "dark" && theme != "light" {
		theme = "dark"
	}
	res := s.db.Model(&appState{}).Where("id = ?", 1).
		Updates(map[string]interface{}{"goals_json": string(goalsJSON), "theme": theme})
	if res.Error != nil {
		return fmt.Errorf("failed to save settings: %w", res.Error)
	}
	return nil
}

func (s *LogStoreService) getState() (appState, error) {
	var state appState
	if err := s.db.First(&state, 1).Error; err != nil {
		return appState{}, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	return state, nil
}
