package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"lifeops-api/pkg/models"
)

// CoachCacheService holds previously generated coaching reports keyed by the
// semantic inputs of the request. Entries expire lazily on read; there is no
// background sweep. Concurrent access is safe with last-writer-wins on key
// collision (entries for the same key are idempotent reconstructions).
type CoachCacheService struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]models.CacheEntry
	now     func() time.Time
}

// NewCoachCacheService creates a cache with the given time-to-live.
func NewCoachCacheService(ttl time.Duration) *CoachCacheService {
	return &CoachCacheService{
		ttl:     ttl,
		entries: make(map[string]models.CacheEntry),
		now:     time.Now,
	}
}

// Get returns the entry for key if it exists and has not outlived the TTL.
// An expired entry is evicted and reported as a miss.
func (s *CoachCacheService) Get(key string) (models.CacheEntry, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return models.CacheEntry{}, false
	}
	if s.now().Sub(entry.GeneratedAt) >= s.ttl {
		s.mu.Lock()
		// Re-check under the write lock: a fresher entry may have landed.
		if cur, still := s.entries[key]; still && s.now().Sub(cur.GeneratedAt) >= s.ttl {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return models.CacheEntry{}, false
	}
	return entry, true
}

// Put stores a generated response, unconditionally overwriting.
func (s *CoachCacheService) Put(key string, resp models.CoachResponse) {
	entry := models.CacheEntry{
		Response:    resp,
		GeneratedAt: s.now(),
	}
	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
}

// CacheKey derives the cache key from the request's semantic inputs plus a
// fingerprint of the exact log set and goals used. Any log mutation inside
// the window, or a goals change, yields a different key.
func (s *CoachCacheService) CacheKey(days, maxItems int, focus string, includeNotes bool, logs []models.DailyLog, goals models.Goals) string {
	return fmt.Sprintf("days=%d|items=%d|focus=%s|notes=%t|fp=%s",
		days, maxItems, focus, includeNotes, fingerprint(logs, goals))
}

// fingerprint is a stable digest of the log set and goals baseline.
func fingerprint(logs []models.DailyLog, goals models.Goals) string {
	h := sha256.New()
	fmt.Fprintf(h, "goals|%.2f|%d|%d|%d\n", goals.SleepMin, goals.WorkoutsPerWeek, goals.FoodTarget, goals.AnxietyMax)
	for _, l := range logs {
		fmt.Fprintf(h, "%s|%.2f|%d|%t|%d|%s|%d|%t|%t|%d|%d|%s\n",
			l.Date, l.SleepHours, l.SleepQuality, l.Trained, l.TrainMinutes, l.TrainType,
			l.FoodScore, l.HydrationOK, l.MealsOK, l.Mood, l.Anxiety, l.Notes)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
