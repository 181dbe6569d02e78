package services

import (
	"lifeops-api/pkg/models"
)

// Thresholds for the flat risk terms.
const (
	trendWorseningThreshold = 0.6
	instabilityThreshold    = 2.0
)

// RiskService combines window statistics into a bounded 0-100 heuristic
// score with explainable contributing terms.
type RiskService struct{}

// NewRiskService creates a new risk service
func NewRiskService() *RiskService {
	return &RiskService{}
}

// Assess scores the most recent log against the goals baseline plus the
// window's spread and trend. Each term is clamped before summing and the
// total is clamped to [0,100], so extreme inputs cannot overflow the scale.
func (s *RiskService) Assess(last models.DailyLog, goals models.Goals, stats models.WindowStats) models.RiskAssessment {
	terms := models.RiskTerms{}

	excess := float64(last.Anxiety-goals.AnxietyMax) * 10
	terms.AnxietyExcess = int(clampFloat(excess, 0, 35))

	deficit := (goals.SleepMin - last.SleepHours) * 8
	terms.SleepDeficit = int(clampFloat(deficit, 0, 25))

	if stats.Trend != nil && stats.Trend.Anxiety > trendWorseningThreshold {
		terms.TrendWorsening = 15
	}

	if stats.AnxietyStdDev != nil && *stats.AnxietyStdDev >= instabilityThreshold {
		terms.Instability = 10
	}

	stressor := float64(stats.StressorScore) * 4
	terms.StressorNotes = int(clampFloat(stressor, 0, 15))

	score := clampInt(
		terms.AnxietyExcess+terms.SleepDeficit+terms.TrendWorsening+terms.Instability+terms.StressorNotes,
		0, 100,
	)

	return models.RiskAssessment{
		Score: score,
		Band:  riskBand(score),
		Terms: terms,
	}
}

// riskBand maps a score to its band. The banding drives offline-report
// branching, not just display severity.
func riskBand(score int) string {
	switch {
	case score >= 70:
		return models.RiskBandHigh
	case score >= 40:
		return models.RiskBandModerate
	default:
		return models.RiskBandLow
	}
}
