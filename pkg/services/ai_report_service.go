package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"lifeops-api/pkg/gemini"
	"lifeops-api/pkg/logger"
	"lifeops-api/pkg/models"
)

// TextGenerator is the slice of the provider client this service depends on.
type TextGenerator interface {
	GenerateContent(ctx context.Context, systemText, userText string, opts gemini.GenerateOptions) (*gemini.GenerateResult, error)
	Model() string
}

// AIReportService wraps the generation provider with bounded retry, backoff,
// and quota detection. Transient failures (rate limit, server error, network)
// are retried with exponential backoff; quota exhaustion is surfaced
// immediately so the orchestrator can fall back without burning the budget.
type AIReportService struct {
	provider        TextGenerator
	log             *logger.Logger
	maxRetries      int
	backoffBase     time.Duration
	backoffCap      time.Duration
	maxOutputTokens int
	jitter          func() time.Duration
}

// NewAIReportService creates a new AI report service. maxRetries counts the
// additional attempts after the first call.
func NewAIReportService(provider TextGenerator, log *logger.Logger, maxRetries int, backoffBase, backoffCap time.Duration, maxOutputTokens int) *AIReportService {
	return &AIReportService{
		provider:        provider,
		log:             log,
		maxRetries:      maxRetries,
		backoffBase:     backoffBase,
		backoffCap:      backoffCap,
		maxOutputTokens: maxOutputTokens,
		jitter: func() time.Duration {
			return time.Duration(rand.Int63n(int64(250 * time.Millisecond)))
		},
	}
}

// Model returns the provider's model name.
func (s *AIReportService) Model() string { return s.provider.Model() }

// GenerateReport builds the coaching prompt and calls the provider, retrying
// per policy. The context bounds the whole call: cancellation during a
// backoff wait aborts the remaining attempts rather than extending them.
func (s *AIReportService) GenerateReport(ctx context.Context, logs []models.DailyLog, stats models.WindowStats, risk models.RiskAssessment, goals models.Goals, focus string, includeNotes bool) (string, error) {
	systemText, userText, err := s.buildPrompt(logs, stats, risk, goals, focus, includeNotes)
	if err != nil {
		return "", err
	}

	opts := gemini.GenerateOptions{
		Temperature:     0.35,
		MaxOutputTokens: s.maxOutputTokens,
		TopP:            0.95,
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		result, err := s.provider.GenerateContent(ctx, systemText, userText, opts)
		if err == nil {
			return s.shapeResult(result), nil
		}

		var perr *gemini.ProviderError
		if !errors.As(err, &perr) {
			// Context cancellation or another non-provider failure: the
			// retry schedule stops here.
			return "", err
		}
		if perr.Kind == gemini.FailureQuotaExhausted {
			s.log.Warn("provider quota exhausted, no retries", "error", perr.Message)
			return "", fmt.Errorf("%w: %s", ErrQuotaExhausted, perr.Message)
		}
		lastErr = perr
		if !perr.Retryable() || attempt == s.maxRetries {
			break
		}

		delay := s.backoffDelay(attempt)
		s.log.Debug("provider call failed, backing off",
			"attempt", attempt+1, "delay", delay.String(), "kind", string(perr.Kind))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, lastErr)
}

// backoffDelay is base*2^attempt capped at the ceiling, plus jitter.
func (s *AIReportService) backoffDelay(attempt int) time.Duration {
	delay := s.backoffBase << uint(attempt)
	if delay > s.backoffCap || delay <= 0 {
		delay = s.backoffCap
	}
	return delay + s.jitter()
}

// shapeResult turns the raw provider result into report text, substituting
// explicit explanations for blocked or empty generations.
func (s *AIReportService) shapeResult(result *gemini.GenerateResult) string {
	if result.BlockReason != "" {
		return "No coaching text: the provider blocked this request's content.\n" +
			"Try a different focus or disable include_notes."
	}
	if result.Text == "" {
		return "No coaching text: the provider returned an empty response.\n" +
			"Try a wider window or fewer notes."
	}
	return result.Text
}

// compactLog is the trimmed per-day record embedded in the prompt.
type compactLog struct {
	Date         string  `json:"date"`
	SleepHours   float64 `json:"sleep_h"`
	SleepQuality int     `json:"sleep_qual_1to5"`
	Trained      bool    `json:"trained"`
	TrainMinutes int     `json:"train_min"`
	TrainType    string  `json:"train_type"`
	FoodScore    int     `json:"food_1to5"`
	HydrationOK  bool    `json:"water_ok"`
	MealsOK      bool    `json:"meals_ok"`
	Mood         int     `json:"mood_0to10"`
	Anxiety      int     `json:"anxiety_0to10"`
	Notes        string  `json:"notes"`
}

type promptPayload struct {
	Focus        string                `json:"focus"`
	Goals        models.Goals          `json:"goals"`
	Stats        models.WindowStats    `json:"stats"`
	Risk         models.RiskAssessment `json:"risk"`
	Logs         []compactLog          `json:"logs"`
	Tasks        []string              `json:"tasks"`
	Constraints  []string              `json:"constraints"`
	OutputFormat string                `json:"format"`
}

const coachSystemPrompt = `You are a data-driven habit coach working from the subject's daily logs.
Mission: reduce anxiety and stabilize mood through small, realistic, measurable interventions.
Rules:
- No medical or psychological diagnosis.
- No alarmist language.
- If anxiety is high and persistent, recommend talking to a trusted person and, if possible, a professional.
- Base recommendations on the provided stats and patterns; propose simple experiments.
- Correlations are signals, not causation. Say so when you use one.
- Direct, practical language. Markdown with short headings and lists.`

// buildPrompt assembles the system and user texts. Notes are truncated and
// dropped entirely when includeNotes is false.
func (s *AIReportService) buildPrompt(logs []models.DailyLog, stats models.WindowStats, risk models.RiskAssessment, goals models.Goals, focus string, includeNotes bool) (string, string, error) {
	compact := make([]compactLog, 0, len(logs))
	for _, l := range logs {
		notes := ""
		if includeNotes {
			notes = truncate(l.Notes, 200)
		}
		compact = append(compact, compactLog{
			Date:         l.Date,
			SleepHours:   l.SleepHours,
			SleepQuality: l.SleepQuality,
			Trained:      l.Trained,
			TrainMinutes: l.TrainMinutes,
			TrainType:    truncate(l.TrainType, 20),
			FoodScore:    l.FoodScore,
			HydrationOK:  l.HydrationOK,
			MealsOK:      l.MealsOK,
			Mood:         l.Mood,
			Anxiety:      l.Anxiety,
			Notes:        notes,
		})
	}

	payload := promptPayload{
		Focus: truncate(focus, 40),
		Goals: goals,
		Stats: stats,
		Risk:  risk,
		Logs:  compact,
		Tasks: []string{
			"1) Objective reading of the data, no embellishment.",
			"2) Patterns and likely relations (sleep vs anxiety, training vs anxiety).",
			"3) Testable hypotheses (max 4): 'if I do X, I expect Y'.",
			"4) 7-day plan (10-20 min/day).",
			"5) Anti-anxiety protocol (2-4 techniques, 1-5 min each).",
			"6) 3 metrics to track tomorrow (simple).",
			"7) If there are logging gaps, how to fix the habit of recording.",
		},
		Constraints:  []string{"No mysticism.", "No absolute promises.", "Nothing dangerous."},
		OutputFormat: "Markdown with short headings and lists.",
	}

	userText, err := json.Marshal(payload)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode prompt payload: %w", err)
	}
	return coachSystemPrompt, string(userText), nil
}

// truncate limits s to max bytes.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
