package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lifeops-api/pkg/models"
)

func fptr(v float64) *float64 { return &v }

func TestAssessScenario(t *testing.T) {
	svc := NewRiskService()

	goals := models.Goals{SleepMin: 7.5, WorkoutsPerWeek: 3, FoodTarget: 4, AnxietyMax: 6}
	last := models.DailyLog{Date: "2026-08-14", SleepHours: 5.0, Anxiety: 9, Mood: 3}
	stats := models.WindowStats{
		Trend:         &models.TrendDeltas{Anxiety: 0.5},
		AnxietyStdDev: fptr(1.2),
		StressorScore: 0,
	}

	risk := svc.Assess(last, goals, stats)

	// (9-6)*10 = 30, (7.5-5.0)*8 = 20, trend 0.5 under the 0.6 threshold.
	assert.Equal(t, 30, risk.Terms.AnxietyExcess)
	assert.Equal(t, 20, risk.Terms.SleepDeficit)
	assert.Equal(t, 0, risk.Terms.TrendWorsening)
	assert.Equal(t, 0, risk.Terms.Instability)
	assert.Equal(t, 50, risk.Score)
	assert.Equal(t, models.RiskBandModerate, risk.Band)
}

func TestAssessFlatTerms(t *testing.T) {
	svc := NewRiskService()

	goals := models.DefaultGoals()
	last := models.DailyLog{Anxiety: 5, SleepHours: 8}
	stats := models.WindowStats{
		Trend:         &models.TrendDeltas{Anxiety: 0.7},
		AnxietyStdDev: fptr(2.0),
		StressorScore: 2,
	}

	risk := svc.Assess(last, goals, stats)

	assert.Equal(t, 15, risk.Terms.TrendWorsening)
	assert.Equal(t, 10, risk.Terms.Instability)
	assert.Equal(t, 8, risk.Terms.StressorNotes)
	assert.Equal(t, 33, risk.Score)
	assert.Equal(t, models.RiskBandLow, risk.Band)
}

func TestAssessExtremesClamp(t *testing.T) {
	svc := NewRiskService()

	goals := models.Goals{SleepMin: 24, AnxietyMax: 0}
	last := models.DailyLog{Anxiety: 10, SleepHours: 0}
	stats := models.WindowStats{
		Trend:         &models.TrendDeltas{Anxiety: 5},
		AnxietyStdDev: fptr(4.0),
		StressorScore: 50,
	}

	risk := svc.Assess(last, goals, stats)

	assert.Equal(t, 35, risk.Terms.AnxietyExcess)
	assert.Equal(t, 25, risk.Terms.SleepDeficit)
	assert.Equal(t, 15, risk.Terms.StressorNotes)
	assert.Equal(t, 100, risk.Score)
	assert.Equal(t, models.RiskBandHigh, risk.Band)
}

func TestAssessNegativeTermsClampToZero(t *testing.T) {
	svc := NewRiskService()

	goals := models.DefaultGoals()
	last := models.DailyLog{Anxiety: 1, SleepHours: 9}
	stats := models.WindowStats{}

	risk := svc.Assess(last, goals, stats)

	assert.Equal(t, 0, risk.Terms.AnxietyExcess)
	assert.Equal(t, 0, risk.Terms.SleepDeficit)
	assert.Equal(t, 0, risk.Score)
	assert.Equal(t, models.RiskBandLow, risk.Band)
}

func TestRiskBandEdges(t *testing.T) {
	assert.Equal(t, models.RiskBandLow, riskBand(39))
	assert.Equal(t, models.RiskBandModerate, riskBand(40))
	assert.Equal(t, models.RiskBandModerate, riskBand(69))
	assert.Equal(t, models.RiskBandHigh, riskBand(70))
}
