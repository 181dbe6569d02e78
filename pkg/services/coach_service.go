package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"lifeops-api/pkg/logger"
	"lifeops-api/pkg/models"
)

// Window resolution bounds. Requests outside them are clamped, not rejected.
const (
	minWindowDays = 3
	maxWindowDays = 60
	minMaxItems   = 10
	maxMaxItems   = 240

	defaultWindowDays = 14
	defaultMaxItems   = 60
	defaultFocus      = "anxiety"
)

// LogStore is the slice of the persistence layer the orchestrator reads.
type LogStore interface {
	GetRecentLogs(limit int) ([]models.DailyLog, error)
	GetGoals() (models.Goals, error)
}

// ReportGenerator is the AI path of the coaching pipeline.
type ReportGenerator interface {
	GenerateReport(ctx context.Context, logs []models.DailyLog, stats models.WindowStats, risk models.RiskAssessment, goals models.Goals, focus string, includeNotes bool) (string, error)
	Model() string
}

// CoachService coordinates one coaching request: resolve the window, compute
// stats and risk, consult the cache, then generate via the AI path or the
// deterministic offline fallback. Provider failures never surface to the
// caller; only validation and data-unavailable conditions do.
type CoachService struct {
	store   LogStore
	stats   *StatisticsService
	risk    *RiskService
	offline *OfflineReportService
	cache   *CoachCacheService
	ai      ReportGenerator
	log     *logger.Logger
	timeout time.Duration
}

// NewCoachService wires the coaching pipeline together.
func NewCoachService(store LogStore, stats *StatisticsService, risk *RiskService, offline *OfflineReportService, cache *CoachCacheService, ai ReportGenerator, log *logger.Logger, timeout time.Duration) *CoachService {
	return &CoachService{
		store:   store,
		stats:   stats,
		risk:    risk,
		offline: offline,
		cache:   cache,
		ai:      ai,
		log:     log.With("service", "CoachService"),
		timeout: timeout,
	}
}

// GenerateCoachReport runs the request state machine:
// resolve window -> compute stats -> check cache -> AI call or offline
// fallback -> store in cache -> respond.
func (s *CoachService) GenerateCoachReport(ctx context.Context, req models.CoachRequest) (models.CoachResponse, error) {
	days, maxItems, focus, err := normalizeRequest(req)
	if err != nil {
		return models.CoachResponse{}, err
	}

	logs, err := s.store.GetRecentLogs(maxItems)
	if err != nil {
		return models.CoachResponse{}, err
	}
	if len(logs) == 0 {
		return models.CoachResponse{}, ErrNoLogs
	}

	goals, err := s.store.GetGoals()
	if err != nil {
		return models.CoachResponse{}, err
	}

	window, futureCount := selectWindow(logs, days)

	stats := s.stats.Summarize(window, goals)
	risk := s.risk.Assess(window[len(window)-1], goals, stats)

	key := s.cache.CacheKey(days, maxItems, focus, req.IncludeNotes, window, goals)
	if entry, ok := s.cache.Get(key); ok {
		resp := entry.Response
		resp.Cached = true
		return resp, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	report, genErr := s.ai.GenerateReport(callCtx, window, stats, risk, goals, focus, req.IncludeNotes)
	model := "ai:" + s.ai.Model()
	if genErr != nil {
		// The offline path is a fallback, not an error state: the caller
		// still gets a full report, marked by the model identifier.
		switch {
		case errors.Is(genErr, ErrQuotaExhausted):
			s.log.Warn("quota exhausted, serving offline report")
		default:
			s.log.Warn("ai generation failed, serving offline report", "error", genErr.Error())
		}
		report = s.offline.Generate(stats, risk, goals, focus)
		model = "offline-fallback"
	}

	if futureCount > 0 {
		report += "\n\nTechnical note: some records carry future dates. The analysis " +
			"prioritizes data up to today; future entries work better as planning."
	}

	resp := models.CoachResponse{
		ReportID:    uuid.New().String(),
		Coach:       "Atlas",
		Model:       model,
		Days:        days,
		LogsUsed:    len(window),
		Report:      report,
		Stats:       stats,
		Risk:        risk,
		GeneratedAt: time.Now(),
	}
	s.cache.Put(key, resp)
	return resp, nil
}

// normalizeRequest validates and clamps request parameters. Negative values
// are rejected; zero means "use the default"; values past the bounds are
// silently clamped.
func normalizeRequest(req models.CoachRequest) (days, maxItems int, focus string, err error) {
	if req.Days < 0 || req.MaxItems < 0 {
		return 0, 0, "", ErrValidation
	}
	days = req.Days
	if days == 0 {
		days = defaultWindowDays
	}
	days = clampInt(days, minWindowDays, maxWindowDays)

	maxItems = req.MaxItems
	if maxItems == 0 {
		maxItems = defaultMaxItems
	}
	maxItems = clampInt(maxItems, minMaxItems, maxMaxItems)

	focus = req.Focus
	if focus == "" {
		focus = defaultFocus
	}
	if len(focus) > 40 {
		focus = focus[:40]
	}
	return days, maxItems, focus, nil
}

// selectWindow picks the analysis window from ascending-by-date logs:
// records up to today are preferred when at least 3 exist (future-dated
// entries are planning, not history), then the window covers the trailing
// `days` calendar days ending at the newest usable record. Fewer logs than
// requested is a silent degrade, never an error.
func selectWindow(logs []models.DailyLog, days int) (window []models.DailyLog, futureCount int) {
	today := time.Now().Format("2006-01-02")

	var pastOrToday []models.DailyLog
	for _, l := range logs {
		if l.Date <= today {
			pastOrToday = append(pastOrToday, l)
		} else {
			futureCount++
		}
	}

	base := logs
	if len(pastOrToday) >= 3 {
		base = pastOrToday
	}
	if len(base) == 0 {
		return nil, futureCount
	}

	end, err := time.Parse("2006-01-02", base[len(base)-1].Date)
	if err != nil {
		return base, futureCount
	}
	start := end.AddDate(0, 0, -(days - 1)).Format("2006-01-02")

	for _, l := range base {
		if l.Date >= start {
			window = append(window, l)
		}
	}
	if len(window) == 0 {
		window = base
	}
	return window, futureCount
}
