package models

import "time"

// DailyLog is one habit record per calendar date. The date is the primary
// key: re-submitting a date replaces the earlier record.
type DailyLog struct {
	Date         string  `json:"date" gorm:"primaryKey;column:date"`
	SleepHours   float64 `json:"sleep" gorm:"column:sleep;not null"`
	SleepQuality int     `json:"sleepQual" gorm:"column:sleep_qual;not null"`
	Trained      bool    `json:"trained" gorm:"column:trained;not null"`
	TrainMinutes int     `json:"trainMin" gorm:"column:train_min;not null"`
	TrainType    string  `json:"trainType" gorm:"column:train_type"`
	FoodScore    int     `json:"foodScore" gorm:"column:food_score;not null"`
	HydrationOK  bool    `json:"water" gorm:"column:water;not null"`
	MealsOK      bool    `json:"meals" gorm:"column:meals;not null"`
	Mood         int     `json:"mood" gorm:"column:mood;not null"`
	Anxiety      int     `json:"anxiety" gorm:"column:anxiety;not null"`
	Notes        string  `json:"notes" gorm:"column:notes"`
}

// TableName keeps the table name aligned with the historical schema.
func (DailyLog) TableName() string { return "daily_logs" }

// Goals is the singleton comparison baseline read by every statistics and
// risk computation.
type Goals struct {
	SleepMin        float64 `json:"sleepMin"`
	WorkoutsPerWeek int     `json:"workoutsPerWeek"`
	FoodTarget      int     `json:"foodTarget"`
	AnxietyMax      int     `json:"anxietyMax"`
}

// DefaultGoals returns the named defaults applied when a goals field is
// missing or out of range at the settings boundary.
func DefaultGoals() Goals {
	return Goals{
		SleepMin:        7.0,
		WorkoutsPerWeek: 3,
		FoodTarget:      4,
		AnxietyMax:      6,
	}
}

// TrendDeltas compares the mean of the last 3 window entries against the
// mean of the preceding 3 entries, per metric.
type TrendDeltas struct {
	Anxiety float64 `json:"anxiety_delta"`
	Mood    float64 `json:"mood_delta"`
	Sleep   float64 `json:"sleep_delta"`
}

// CorrelationSet holds Pearson coefficients against anxiety. A nil pointer
// means "insufficient signal" (fewer than 4 pairs or zero variance), which is
// not the same thing as zero correlation.
type CorrelationSet struct {
	SleepAnxiety        *float64 `json:"sleep_vs_anxiety"`
	SleepQualityAnxiety *float64 `json:"sleep_quality_vs_anxiety"`
	FoodAnxiety         *float64 `json:"food_vs_anxiety"`
	TrainingAnxiety     *float64 `json:"training_vs_anxiety"`
}

// WindowStats is the derived summary of one log window. It is rebuilt on
// every request and never persisted. Nil pointers mark values that are
// undefined for the window size rather than zero.
type WindowStats struct {
	WindowStart     string         `json:"window_start"`
	WindowEnd       string         `json:"window_end"`
	Count           int            `json:"n"`
	MissingDays     int            `json:"missing_days_in_range"`
	AnxietyLimit    int            `json:"anxiety_limit"`
	AvgSleep        *float64       `json:"avg_sleep"`
	AvgMood         *float64       `json:"avg_mood"`
	AvgAnxiety      *float64       `json:"avg_anxiety"`
	AvgFood         *float64       `json:"avg_food"`
	AnxietyStdDev   *float64       `json:"anxiety_std_dev"`
	Workouts        int            `json:"workouts"`
	HighAnxietyDays int            `json:"high_anxiety_days"`
	PeakAnxiety     int            `json:"peak_anxiety"`
	PeakAnxietyDate string         `json:"peak_date"`
	TrainEffect     *float64       `json:"train_effect"`
	Trend           *TrendDeltas   `json:"trend"`
	Correlations    CorrelationSet `json:"correlations"`
	BestDay         string         `json:"best_day"`
	WorstDay        string         `json:"worst_day"`
	StressorScore   int            `json:"stressor_score"`
}

// RiskTerms exposes the raw contributing terms of the risk score so reports
// can explain where the number came from.
type RiskTerms struct {
	AnxietyExcess  int `json:"anxiety_excess"`
	SleepDeficit   int `json:"sleep_deficit"`
	TrendWorsening int `json:"trend_worsening"`
	Instability    int `json:"instability"`
	StressorNotes  int `json:"stressor_notes"`
}

// Risk bands. The banding drives report branching, not just display.
const (
	RiskBandLow      = "low"
	RiskBandModerate = "moderate"
	RiskBandHigh     = "high"
)

// RiskAssessment is the bounded heuristic estimate of near-term elevated
// anxiety, with its additive terms.
type RiskAssessment struct {
	Score int       `json:"score"`
	Band  string    `json:"band"`
	Terms RiskTerms `json:"terms"`
}

// CoachRequest is the request body of the coaching endpoint.
type CoachRequest struct {
	Days         int    `json:"days"`
	MaxItems     int    `json:"max_items"`
	Focus        string `json:"focus"`
	IncludeNotes bool   `json:"include_notes"`
}

// CoachResponse is always HTTP-success shaped: the offline path is an
// internal fallback, not an error state. Model distinguishes "ai:<name>"
// from "offline-fallback".
type CoachResponse struct {
	ReportID    string         `json:"report_id"`
	Coach       string         `json:"coach"`
	Model       string         `json:"model"`
	Days        int            `json:"days"`
	LogsUsed    int            `json:"n_logs_used"`
	Report      string         `json:"report"`
	Stats       WindowStats    `json:"stats"`
	Risk        RiskAssessment `json:"risk"`
	Cached      bool           `json:"cached"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// CacheEntry is one generated report held by the coach request cache.
type CacheEntry struct {
	Response    CoachResponse
	GeneratedAt time.Time
}

// GoalsInput is the loosely-filled settings payload. Pointer fields
// distinguish "absent" from zero so defaults can be applied explicitly at
// the validation boundary instead of downstream.
type GoalsInput struct {
	SleepMin        *float64 `json:"sleepMin"`
	WorkoutsPerWeek *int     `json:"workoutsPerWeek"`
	FoodTarget      *int     `json:"foodTarget"`
	AnxietyMax      *int     `json:"anxietyMax"`
}

// MergeGoals fills missing or out-of-range fields with the named defaults.
func MergeGoals(in GoalsInput) Goals {
	g := DefaultGoals()
	if in.SleepMin != nil && *in.SleepMin >= 0 && *in.SleepMin <= 24 {
		g.SleepMin = *in.SleepMin
	}
	if in.WorkoutsPerWeek != nil && *in.WorkoutsPerWeek >= 0 {
		g.WorkoutsPerWeek = *in.WorkoutsPerWeek
	}
	if in.FoodTarget != nil && *in.FoodTarget >= 1 && *in.FoodTarget <= 5 {
		g.FoodTarget = *in.FoodTarget
	}
	if in.AnxietyMax != nil && *in.AnxietyMax >= 0 && *in.AnxietyMax <= 10 {
		g.AnxietyMax = *in.AnxietyMax
	}
	return g
}

// Settings is the request body for the settings endpoint.
type Settings struct {
	Goals GoalsInput `json:"goals"`
	Theme string     `json:"theme"`
}
