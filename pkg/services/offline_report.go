package services

import (
	"fmt"
	"strings"

	"lifeops-api/pkg/models"
)

// OfflineReportService renders the deterministic coaching report used when
// the generation provider is unavailable or quota-exhausted. It is a pure
// function of its inputs: identical stats, risk, and goals always yield
// byte-identical Markdown.
type OfflineReportService struct{}

// NewOfflineReportService creates a new offline report service
func NewOfflineReportService() *OfflineReportService {
	return &OfflineReportService{}
}

// Generate builds the Markdown report. Every branch is a plain rule over
// already-computed statistics; there is no randomness and no hidden state.
func (s *OfflineReportService) Generate(stats models.WindowStats, risk models.RiskAssessment, goals models.Goals, focus string) string {
	focus = strings.TrimSpace(focus)
	if focus == "" {
		focus = "anxiety"
	}

	var lines []string
	add := func(l string) { lines = append(lines, l) }

	// (a) headline risk statement
	add(fmt.Sprintf("# Coach (offline mode) — focus: %s", focus))
	add("")
	switch risk.Band {
	case models.RiskBandHigh:
		add(fmt.Sprintf("**Risk: HIGH (%d/100).** The recent pattern points to elevated anxiety pressure. Keep today small and recoverable.", risk.Score))
	case models.RiskBandModerate:
		add(fmt.Sprintf("**Risk: moderate (%d/100).** Some warning signs, nothing runaway. A few focused adjustments should be enough.", risk.Score))
	default:
		add(fmt.Sprintf("**Risk: low (%d/100).** The window looks stable. This is the time to reinforce what is already working.", risk.Score))
	}

	// (b) short-term trend
	add("")
	add("## Short-term trend (last 3 vs previous 3 days)")
	if stats.Trend == nil {
		add(fmt.Sprintf("- Insufficient data: %d logged day(s) in the window, at least 6 are needed for a trend comparison.", stats.Count))
	} else {
		add(fmt.Sprintf("- Anxiety: %+.2f", stats.Trend.Anxiety))
		add(fmt.Sprintf("- Mood: %+.2f", stats.Trend.Mood))
		add(fmt.Sprintf("- Sleep: %+.2fh", stats.Trend.Sleep))
		if stats.Trend.Anxiety > trendWorseningThreshold {
			add("- Anxiety is drifting upward; the plans below lean toward intervention.")
		}
	}

	// (c) correlation signals
	add("")
	add("## Correlation signals")
	corrLines := 0
	if c := stats.Correlations.SleepAnxiety; c != nil {
		add(fmt.Sprintf("- Sleep hours vs anxiety: %.3f", *c))
		corrLines++
	}
	if c := stats.Correlations.SleepQualityAnxiety; c != nil {
		add(fmt.Sprintf("- Sleep quality vs anxiety: %.3f", *c))
		corrLines++
	}
	if c := stats.Correlations.FoodAnxiety; c != nil {
		add(fmt.Sprintf("- Food score vs anxiety: %.3f", *c))
		corrLines++
	}
	if c := stats.Correlations.TrainingAnxiety; c != nil {
		add(fmt.Sprintf("- Training minutes vs anxiety: %.3f", *c))
		corrLines++
	}
	if stats.TrainEffect != nil {
		add(fmt.Sprintf("- Training effect (heuristic): %.3f — positive suggests trained days carry lower anxiety.", *stats.TrainEffect))
		corrLines++
	}
	if corrLines == 0 {
		add("- Insufficient data for correlation signals (at least 4 days with variation are needed).")
	}
	add("- These are signals, not causation. Treat them as experiments to run, not conclusions.")

	// (d) 24-hour minimal-viable plan
	add("")
	add("## Next 24 hours")
	sleepDeficit := stats.AvgSleep != nil && *stats.AvgSleep < goals.SleepMin
	if sleepDeficit {
		add(fmt.Sprintf("- Prioritize bedtime tonight: average sleep %.2fh is under the %.1fh goal.", *stats.AvgSleep, goals.SleepMin))
	}
	if risk.Band == models.RiskBandHigh {
		add("- 2 minutes of paced breathing (inhale 4s, exhale 6s), once now and once before bed.")
		add("- Caffeine cutoff after lunch.")
	}
	if stats.Workouts < goals.WorkoutsPerWeek && risk.Score >= 40 {
		add("- A 10-20 minute light walk counts as training today.")
	}
	add("- Log today. Missing days weaken every signal above.")

	// (e) 7-day plan
	add("")
	add("## Next 7 days")
	if risk.Score < 40 {
		add("- Maintenance: keep wake/sleep times within ±30 minutes.")
		add(fmt.Sprintf("- Hold the training rhythm: %d workout(s) this window, goal is %d per week.", stats.Workouts, goals.WorkoutsPerWeek))
		add("- Keep logging daily; aim for zero missing days.")
	} else {
		add("- Intervention: fix a hard caffeine cutoff and a fixed bedtime for 7 straight days.")
		add("- Short daily movement (10-20 min), alternating walk and light strength.")
		add("- Note one worry plus one next possible action each evening (2 minutes).")
		if stats.HighAnxietyDays > 0 {
			add(fmt.Sprintf("- %d day(s) exceeded the anxiety limit of %d; if that persists, talk it through with someone you trust.", stats.HighAnxietyDays, stats.AnxietyLimit))
		}
	}

	// (f) numeric summary line
	add("")
	add(fmt.Sprintf("Summary: window %s to %s, %d log(s), avg sleep %s, avg mood %s, avg anxiety %s, peak anxiety %d on %s, %d high-anxiety day(s), risk %d/100 (%s).",
		stats.WindowStart, stats.WindowEnd, stats.Count,
		fmtAvg(stats.AvgSleep, "h"), fmtAvg(stats.AvgMood, "/10"), fmtAvg(stats.AvgAnxiety, "/10"),
		stats.PeakAnxiety, stats.PeakAnxietyDate,
		stats.HighAnxietyDays, risk.Score, risk.Band))

	return strings.Join(lines, "\n")
}

// fmtAvg renders an average with its unit, or "n/a" when undefined.
func fmtAvg(v *float64, unit string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%s", *v, unit)
}
