package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeops-api/pkg/logger"
	"lifeops-api/pkg/models"
)

// fakeStore serves a canned log set.
type fakeStore struct {
	logs  []models.DailyLog
	goals models.Goals
	err   error
}

func (f *fakeStore) GetRecentLogs(limit int) ([]models.DailyLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.logs) > limit {
		return f.logs[len(f.logs)-limit:], nil
	}
	return f.logs, nil
}

func (f *fakeStore) GetGoals() (models.Goals, error) {
	if f.err != nil {
		return models.Goals{}, f.err
	}
	return f.goals, nil
}

// countingGenerator always succeeds and counts invocations.
type countingGenerator struct {
	calls int
	err   error
}

func (g *countingGenerator) GenerateReport(ctx context.Context, logs []models.DailyLog, stats models.WindowStats, risk models.RiskAssessment, goals models.Goals, focus string, includeNotes bool) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return "# AI report", nil
}

func (g *countingGenerator) Model() string { return "fake-model" }

// recentLogs builds n consecutive daily logs ending today.
func recentLogs(n int) []models.DailyLog {
	logs := make([]models.DailyLog, 0, n)
	for i := n - 1; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i).Format("2006-01-02")
		logs = append(logs, models.DailyLog{
			Date: date, SleepHours: 7, SleepQuality: 3, FoodScore: 3, Mood: 5, Anxiety: 5,
		})
	}
	return logs
}

func newCoachService(store LogStore, gen ReportGenerator) *CoachService {
	return NewCoachService(
		store,
		NewStatisticsService(),
		NewRiskService(),
		NewOfflineReportService(),
		NewCoachCacheService(15*time.Minute),
		gen,
		logger.NewNop(),
		time.Second,
	)
}

func TestGenerateCoachReportAIPath(t *testing.T) {
	store := &fakeStore{logs: recentLogs(14), goals: models.DefaultGoals()}
	gen := &countingGenerator{}
	svc := newCoachService(store, gen)

	resp, err := svc.GenerateCoachReport(context.Background(), models.CoachRequest{})

	require.NoError(t, err)
	assert.Equal(t, "ai:fake-model", resp.Model)
	assert.Equal(t, "# AI report", resp.Report)
	assert.Equal(t, "Atlas", resp.Coach)
	assert.Equal(t, 14, resp.Days)
	assert.Equal(t, 14, resp.LogsUsed)
	assert.False(t, resp.Cached)
	assert.NotEmpty(t, resp.ReportID)
}

func TestGenerateCoachReportOfflineFallback(t *testing.T) {
	store := &fakeStore{logs: recentLogs(14), goals: models.DefaultGoals()}
	gen := &countingGenerator{err: ErrQuotaExhausted}
	svc := newCoachService(store, gen)

	resp, err := svc.GenerateCoachReport(context.Background(), models.CoachRequest{})

	// Provider failure never surfaces: the caller gets a full offline report.
	require.NoError(t, err)
	assert.Equal(t, "offline-fallback", resp.Model)
	assert.Contains(t, resp.Report, "Coach (offline mode)")
	assert.Equal(t, 1, gen.calls)
}

func TestGenerateCoachReportCacheHit(t *testing.T) {
	store := &fakeStore{logs: recentLogs(14), goals: models.DefaultGoals()}
	gen := &countingGenerator{}
	svc := newCoachService(store, gen)

	first, err := svc.GenerateCoachReport(context.Background(), models.CoachRequest{})
	require.NoError(t, err)
	second, err := svc.GenerateCoachReport(context.Background(), models.CoachRequest{})
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls)
	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.ReportID, second.ReportID)
}

func TestGenerateCoachReportCacheMissOnDifferentRequest(t *testing.T) {
	store := &fakeStore{logs: recentLogs(14), goals: models.DefaultGoals()}
	gen := &countingGenerator{}
	svc := newCoachService(store, gen)

	_, err := svc.GenerateCoachReport(context.Background(), models.CoachRequest{Days: 14})
	require.NoError(t, err)
	_, err = svc.GenerateCoachReport(context.Background(), models.CoachRequest{Days: 7})
	require.NoError(t, err)

	assert.Equal(t, 2, gen.calls)
}

func TestGenerateCoachReportNegativeParamsRejected(t *testing.T) {
	store := &fakeStore{logs: recentLogs(14), goals: models.DefaultGoals()}
	svc := newCoachService(store, &countingGenerator{})

	_, err := svc.GenerateCoachReport(context.Background(), models.CoachRequest{Days: -1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.GenerateCoachReport(context.Background(), models.CoachRequest{MaxItems: -5})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGenerateCoachReportNoLogs(t *testing.T) {
	store := &fakeStore{goals: models.DefaultGoals()}
	svc := newCoachService(store, &countingGenerator{})

	_, err := svc.GenerateCoachReport(context.Background(), models.CoachRequest{})
	assert.ErrorIs(t, err, ErrNoLogs)
}

func TestGenerateCoachReportStoreFailure(t *testing.T) {
	store := &fakeStore{err: ErrDataUnavailable}
	svc := newCoachService(store, &countingGenerator{})

	_, err := svc.GenerateCoachReport(context.Background(), models.CoachRequest{})
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestGenerateCoachReportFutureDatesNote(t *testing.T) {
	logs := recentLogs(5)
	future := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	logs = append(logs, models.DailyLog{Date: future, SleepHours: 7, SleepQuality: 3, FoodScore: 3, Mood: 5, Anxiety: 5})

	store := &fakeStore{logs: logs, goals: models.DefaultGoals()}
	svc := newCoachService(store, &countingGenerator{})

	resp, err := svc.GenerateCoachReport(context.Background(), models.CoachRequest{})

	require.NoError(t, err)
	assert.Contains(t, resp.Report, "Technical note: some records carry future dates")
	// The future entry was excluded from the analysis window.
	assert.Equal(t, 5, resp.LogsUsed)
}

func TestNormalizeRequestDefaultsAndClamps(t *testing.T) {
	days, maxItems, focus, err := normalizeRequest(models.CoachRequest{})
	require.NoError(t, err)
	assert.Equal(t, 14, days)
	assert.Equal(t, 60, maxItems)
	assert.Equal(t, "anxiety", focus)

	days, maxItems, _, err = normalizeRequest(models.CoachRequest{Days: 500, MaxItems: 1})
	require.NoError(t, err)
	assert.Equal(t, 60, days)
	assert.Equal(t, 10, maxItems)

	days, _, _, err = normalizeRequest(models.CoachRequest{Days: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, days)
}

func TestSelectWindowTrailingDays(t *testing.T) {
	logs := recentLogs(30)

	window, futureCount := selectWindow(logs, 14)

	assert.Equal(t, 0, futureCount)
	require.Len(t, window, 14)
	assert.Equal(t, logs[len(logs)-14].Date, window[0].Date)
	assert.Equal(t, logs[len(logs)-1].Date, window[len(window)-1].Date)
}

func TestSelectWindowPrefersPastWhenEnough(t *testing.T) {
	logs := recentLogs(5)
	for i := 1; i <= 2; i++ {
		logs = append(logs, models.DailyLog{Date: time.Now().AddDate(0, 0, i).Format("2006-01-02"), SleepHours: 7, SleepQuality: 3, FoodScore: 3, Mood: 5, Anxiety: 5})
	}

	window, futureCount := selectWindow(logs, 14)

	assert.Equal(t, 2, futureCount)
	assert.Len(t, window, 5)
}

func TestSelectWindowKeepsFutureWhenTooFewPastLogs(t *testing.T) {
	// Only 2 past logs: not enough to drop the future entry.
	logs := recentLogs(2)
	future := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	logs = append(logs, models.DailyLog{Date: future, SleepHours: 7, SleepQuality: 3, FoodScore: 3, Mood: 5, Anxiety: 5})

	window, futureCount := selectWindow(logs, 14)

	assert.Equal(t, 1, futureCount)
	assert.Len(t, window, 3)
}
