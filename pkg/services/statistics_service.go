package services

import (
	"strings"
	"time"

	"lifeops-api/pkg/models"
)

// StatisticsService computes descriptive statistics over an ordered log
// window. It is pure: no I/O, no state. The caller guarantees the logs are
// ascending by date, boundary-validated, and already limited to the window.
type StatisticsService struct{}

// NewStatisticsService creates a new statistics service
func NewStatisticsService() *StatisticsService {
	return &StatisticsService{}
}

// stressorKeywords is the fixed weighted table scanned against free-text
// notes. Panic-class terms weigh highest, generic stress terms lower.
var stressorKeywords = []struct {
	word   string
	weight int
}{
	{"panic", 3},
	{"crisis", 3},
	{"overwhelmed", 2},
	{"anxious", 2},
	{"insomnia", 2},
	{"stressed", 2},
	{"dread", 2},
	{"worried", 1},
	{"tense", 1},
	{"exhausted", 1},
}

// Summarize builds WindowStats for an ascending-by-date window of validated
// logs against the goals baseline. Values that are undefined for the window
// size stay nil instead of degrading to zero.
func (s *StatisticsService) Summarize(logs []models.DailyLog, goals models.Goals) models.WindowStats {
	stats := models.WindowStats{
		Count:        len(logs),
		AnxietyLimit: goals.AnxietyMax,
	}
	if len(logs) == 0 {
		return stats
	}

	stats.WindowStart = logs[0].Date
	stats.WindowEnd = logs[len(logs)-1].Date
	stats.MissingDays = countMissingDays(logs)

	sleep := make([]float64, len(logs))
	sleepQual := make([]float64, len(logs))
	mood := make([]float64, len(logs))
	anxiety := make([]float64, len(logs))
	food := make([]float64, len(logs))
	trainMin := make([]float64, len(logs))

	for i, l := range logs {
		sleep[i] = l.SleepHours
		sleepQual[i] = float64(l.SleepQuality)
		mood[i] = float64(l.Mood)
		anxiety[i] = float64(l.Anxiety)
		food[i] = float64(l.FoodScore)
		trainMin[i] = float64(l.TrainMinutes)

		if l.Trained {
			stats.Workouts++
		}
		if l.Anxiety > goals.AnxietyMax {
			stats.HighAnxietyDays++
		}
	}

	stats.AvgSleep = roundPtr(mean(sleep), 2)
	stats.AvgMood = roundPtr(mean(mood), 2)
	stats.AvgAnxiety = roundPtr(mean(anxiety), 2)
	stats.AvgFood = roundPtr(mean(food), 2)
	stats.AnxietyStdDev = roundPtr(populationStdDev(anxiety), 2)

	// Peak anxiety: first occurrence wins ties in ascending date order.
	peakIdx := 0
	for i, l := range logs {
		if l.Anxiety > logs[peakIdx].Anxiety {
			peakIdx = i
		}
	}
	stats.PeakAnxiety = logs[peakIdx].Anxiety
	stats.PeakAnxietyDate = logs[peakIdx].Date

	stats.BestDay, stats.WorstDay = selectBestWorstDays(logs)
	stats.TrainEffect = roundPtr(trainEffect(logs), 3)
	stats.Trend = trendDeltas(logs)

	stats.Correlations = models.CorrelationSet{
		SleepAnxiety:        roundPtr(pearson(sleep, anxiety), 3),
		SleepQualityAnxiety: roundPtr(pearson(sleepQual, anxiety), 3),
		FoodAnxiety:         roundPtr(pearson(food, anxiety), 3),
		TrainingAnxiety:     roundPtr(pearson(trainMin, anxiety), 3),
	}

	stats.StressorScore = s.StressorScore(logs)

	return stats
}

// StressorScore scans notes case-insensitively against the keyword table.
// Each distinct keyword counts at most once per note.
func (s *StatisticsService) StressorScore(logs []models.DailyLog) int {
	score := 0
	for _, l := range logs {
		if l.Notes == "" {
			continue
		}
		note := strings.ToLower(l.Notes)
		for _, kw := range stressorKeywords {
			if strings.Contains(note, kw.word) {
				score += kw.weight
			}
		}
	}
	return score
}

// trendDeltas splits the window into the last 3 entries and the preceding 3
// (non-overlapping) and reports the per-metric difference of means. With
// fewer than 6 entries there is no trend to report.
func trendDeltas(logs []models.DailyLog) *models.TrendDeltas {
	if len(logs) < 6 {
		return nil
	}
	last3 := logs[len(logs)-3:]
	prev3 := logs[len(logs)-6 : len(logs)-3]

	subMean := func(window []models.DailyLog, pick func(models.DailyLog) float64) float64 {
		var sum float64
		for _, l := range window {
			sum += pick(l)
		}
		return sum / float64(len(window))
	}

	anx := func(l models.DailyLog) float64 { return float64(l.Anxiety) }
	md := func(l models.DailyLog) float64 { return float64(l.Mood) }
	slp := func(l models.DailyLog) float64 { return l.SleepHours }

	return &models.TrendDeltas{
		Anxiety: roundTo(subMean(last3, anx)-subMean(prev3, anx), 2),
		Mood:    roundTo(subMean(last3, md)-subMean(prev3, md), 2),
		Sleep:   roundTo(subMean(last3, slp)-subMean(prev3, slp), 2),
	}
}

// selectBestWorstDays picks the worst day (max anxiety, ties broken by lowest
// mood) and the best day (min anxiety, ties broken by highest mood).
func selectBestWorstDays(logs []models.DailyLog) (best, worst string) {
	if len(logs) == 0 {
		return "", ""
	}
	bestIdx, worstIdx := 0, 0
	for i, l := range logs {
		w := logs[worstIdx]
		if l.Anxiety > w.Anxiety || (l.Anxiety == w.Anxiety && l.Mood < w.Mood) {
			worstIdx = i
		}
		b := logs[bestIdx]
		if l.Anxiety < b.Anxiety || (l.Anxiety == b.Anxiety && l.Mood > b.Mood) {
			bestIdx = i
		}
	}
	return logs[bestIdx].Date, logs[worstIdx].Date
}

// trainEffect is mean anxiety on rest days minus mean anxiety on trained
// days. Positive values suggest training is associated with lower anxiety.
// Defined only when both groups are non-empty.
func trainEffect(logs []models.DailyLog) *float64 {
	var trained, rested []float64
	for _, l := range logs {
		if l.Trained {
			trained = append(trained, float64(l.Anxiety))
		} else {
			rested = append(rested, float64(l.Anxiety))
		}
	}
	mt := mean(trained)
	mr := mean(rested)
	if mt == nil || mr == nil {
		return nil
	}
	effect := *mr - *mt
	return &effect
}

// countMissingDays counts calendar dates inside [start, end] with no record.
func countMissingDays(logs []models.DailyLog) int {
	have := make(map[string]bool, len(logs))
	var start, end time.Time
	for _, l := range logs {
		t, err := time.Parse("2006-01-02", l.Date)
		if err != nil {
			continue
		}
		have[l.Date] = true
		if start.IsZero() || t.Before(start) {
			start = t
		}
		if end.IsZero() || t.After(end) {
			end = t
		}
	}
	if start.IsZero() || end.IsZero() {
		return 0
	}
	missing := 0
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		if !have[cur.Format("2006-01-02")] {
			missing++
		}
	}
	return missing
}
