package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeops-api/pkg/models"
)

func day(date string, sleep float64, mood, anxiety int) models.DailyLog {
	return models.DailyLog{
		Date:         date,
		SleepHours:   sleep,
		SleepQuality: 3,
		FoodScore:    3,
		Mood:         mood,
		Anxiety:      anxiety,
	}
}

func TestSummarizeEmptyWindow(t *testing.T) {
	svc := NewStatisticsService()

	stats := svc.Summarize(nil, models.DefaultGoals())

	assert.Equal(t, 0, stats.Count)
	assert.Nil(t, stats.AvgSleep)
	assert.Nil(t, stats.AvgAnxiety)
	assert.Nil(t, stats.AnxietyStdDev)
	assert.Nil(t, stats.Trend)
	assert.Nil(t, stats.Correlations.SleepAnxiety)
}

func TestSummarizeAverages(t *testing.T) {
	svc := NewStatisticsService()
	logs := []models.DailyLog{
		day("2026-08-01", 6.0, 5, 4),
		day("2026-08-02", 7.0, 6, 6),
		day("2026-08-03", 8.0, 7, 8),
	}

	stats := svc.Summarize(logs, models.DefaultGoals())

	require.NotNil(t, stats.AvgSleep)
	assert.Equal(t, 7.0, *stats.AvgSleep)
	require.NotNil(t, stats.AvgAnxiety)
	assert.Equal(t, 6.0, *stats.AvgAnxiety)
	assert.Equal(t, "2026-08-01", stats.WindowStart)
	assert.Equal(t, "2026-08-03", stats.WindowEnd)
	assert.Equal(t, 0, stats.MissingDays)
}

func TestSummarizeMissingDays(t *testing.T) {
	svc := NewStatisticsService()
	logs := []models.DailyLog{
		day("2026-08-01", 7, 5, 5),
		day("2026-08-04", 7, 5, 5),
		day("2026-08-05", 7, 5, 5),
	}

	stats := svc.Summarize(logs, models.DefaultGoals())

	// Aug 2 and Aug 3 have no record.
	assert.Equal(t, 2, stats.MissingDays)
}

func TestAnxietyStdDevNeedsTwoPoints(t *testing.T) {
	svc := NewStatisticsService()
	logs := []models.DailyLog{day("2026-08-01", 7, 5, 5)}

	stats := svc.Summarize(logs, models.DefaultGoals())

	assert.Nil(t, stats.AnxietyStdDev)
	require.NotNil(t, stats.AvgAnxiety)
	assert.Equal(t, 5.0, *stats.AvgAnxiety)
}

func TestCorrelationUndefinedBelowFourPoints(t *testing.T) {
	svc := NewStatisticsService()
	logs := []models.DailyLog{
		day("2026-08-01", 6, 5, 4),
		day("2026-08-02", 7, 6, 6),
		day("2026-08-03", 8, 7, 8),
	}

	stats := svc.Summarize(logs, models.DefaultGoals())

	assert.Nil(t, stats.Correlations.SleepAnxiety)
	assert.Nil(t, stats.Correlations.FoodAnxiety)
}

func TestCorrelationUndefinedOnZeroVariance(t *testing.T) {
	svc := NewStatisticsService()
	// Sleep varies but anxiety is flat: the coefficient has no meaning.
	logs := []models.DailyLog{
		day("2026-08-01", 5, 5, 5),
		day("2026-08-02", 6, 5, 5),
		day("2026-08-03", 7, 5, 5),
		day("2026-08-04", 8, 5, 5),
	}

	stats := svc.Summarize(logs, models.DefaultGoals())

	assert.Nil(t, stats.Correlations.SleepAnxiety)
}

func TestCorrelationPerfectNegative(t *testing.T) {
	svc := NewStatisticsService()
	// More sleep, strictly less anxiety.
	logs := []models.DailyLog{
		day("2026-08-01", 5, 5, 8),
		day("2026-08-02", 6, 5, 7),
		day("2026-08-03", 7, 5, 6),
		day("2026-08-04", 8, 5, 5),
	}

	stats := svc.Summarize(logs, models.DefaultGoals())

	require.NotNil(t, stats.Correlations.SleepAnxiety)
	assert.InDelta(t, -1.0, *stats.Correlations.SleepAnxiety, 0.0001)
}

func TestTrendRequiresSixEntries(t *testing.T) {
	svc := NewStatisticsService()
	logs := []models.DailyLog{
		day("2026-08-01", 7, 5, 5),
		day("2026-08-02", 7, 5, 5),
		day("2026-08-03", 7, 5, 5),
		day("2026-08-04", 7, 5, 5),
		day("2026-08-05", 7, 5, 5),
	}

	stats := svc.Summarize(logs, models.DefaultGoals())
	assert.Nil(t, stats.Trend)

	logs = append(logs, day("2026-08-06", 7, 5, 8))
	stats = svc.Summarize(logs, models.DefaultGoals())
	require.NotNil(t, stats.Trend)
	// last3 mean anxiety 6.0 vs prev3 mean 5.0.
	assert.Equal(t, 1.0, stats.Trend.Anxiety)
}

func TestTrendUsesNonOverlappingHalves(t *testing.T) {
	svc := NewStatisticsService()
	logs := []models.DailyLog{
		day("2026-08-01", 8, 5, 2), // outside both halves
		day("2026-08-02", 7, 5, 2),
		day("2026-08-03", 7, 5, 2),
		day("2026-08-04", 7, 5, 2),
		day("2026-08-05", 6, 5, 6),
		day("2026-08-06", 6, 5, 6),
		day("2026-08-07", 6, 5, 6),
	}

	stats := svc.Summarize(logs, models.DefaultGoals())

	require.NotNil(t, stats.Trend)
	assert.Equal(t, 4.0, stats.Trend.Anxiety)
	assert.Equal(t, -1.0, stats.Trend.Sleep)
}

func TestPeakAnxietyFirstOccurrenceWins(t *testing.T) {
	svc := NewStatisticsService()
	logs := []models.DailyLog{
		day("2026-08-01", 7, 5, 4),
		day("2026-08-02", 7, 5, 9),
		day("2026-08-03", 7, 5, 9),
	}

	stats := svc.Summarize(logs, models.DefaultGoals())

	assert.Equal(t, 9, stats.PeakAnxiety)
	assert.Equal(t, "2026-08-02", stats.PeakAnxietyDate)
}

func TestBestWorstDayTieBreaks(t *testing.T) {
	svc := NewStatisticsService()
	logs := []models.DailyLog{
		day("2026-08-01", 7, 6, 8), // anxiety tie, higher mood
		day("2026-08-02", 7, 2, 8), // worst: anxiety tie broken by lower mood
		day("2026-08-03", 7, 3, 2), // anxiety tie, lower mood
		day("2026-08-04", 7, 9, 2), // best: anxiety tie broken by higher mood
	}

	stats := svc.Summarize(logs, models.DefaultGoals())

	assert.Equal(t, "2026-08-02", stats.WorstDay)
	assert.Equal(t, "2026-08-04", stats.BestDay)
}

func TestHighAnxietyDaysStrictlyAboveLimit(t *testing.T) {
	svc := NewStatisticsService()
	goals := models.DefaultGoals() // AnxietyMax 6
	logs := []models.DailyLog{
		day("2026-08-01", 7, 5, 6), // at the limit, not above
		day("2026-08-02", 7, 5, 7),
		day("2026-08-03", 7, 5, 9),
	}

	stats := svc.Summarize(logs, goals)

	assert.Equal(t, 2, stats.HighAnxietyDays)
}

func TestTrainEffect(t *testing.T) {
	svc := NewStatisticsService()
	trainedDay := day("2026-08-01", 7, 5, 3)
	trainedDay.Trained = true
	trainedDay2 := day("2026-08-02", 7, 5, 5)
	trainedDay2.Trained = true
	logs := []models.DailyLog{
		trainedDay,
		trainedDay2,
		day("2026-08-03", 7, 5, 7),
		day("2026-08-04", 7, 5, 9),
	}

	stats := svc.Summarize(logs, models.DefaultGoals())

	// Rest mean 8 minus trained mean 4: training days carry lower anxiety.
	require.NotNil(t, stats.TrainEffect)
	assert.Equal(t, 4.0, *stats.TrainEffect)
	assert.Equal(t, 2, stats.Workouts)
}

func TestTrainEffectUndefinedWithoutBothGroups(t *testing.T) {
	svc := NewStatisticsService()
	logs := []models.DailyLog{
		day("2026-08-01", 7, 5, 5),
		day("2026-08-02", 7, 5, 5),
	}

	stats := svc.Summarize(logs, models.DefaultGoals())

	assert.Nil(t, stats.TrainEffect)
}

func TestStressorScoreWeightsAndCase(t *testing.T) {
	svc := NewStatisticsService()

	l1 := day("2026-08-01", 7, 5, 5)
	l1.Notes = "Felt PANIC at work, totally overwhelmed"
	l2 := day("2026-08-02", 7, 5, 5)
	l2.Notes = "a bit worried"
	l3 := day("2026-08-03", 7, 5, 5)
	l3.Notes = "calm day"

	// panic(3) + overwhelmed(2) + worried(1)
	assert.Equal(t, 6, svc.StressorScore([]models.DailyLog{l1, l2, l3}))
}

func TestStressorScoreCountsKeywordOncePerNote(t *testing.T) {
	svc := NewStatisticsService()

	l := day("2026-08-01", 7, 5, 5)
	l.Notes = "panic panic panic"

	assert.Equal(t, 3, svc.StressorScore([]models.DailyLog{l}))
}
