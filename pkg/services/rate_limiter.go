package services

import (
	"fmt"
	"sync"
	"time"
)

// SessionRateLimiter enforces a per-session cooldown between coaching
// requests. It is an explicit state object handed to the transport layer
// rather than a process-wide timestamp, so callers are isolated from each
// other.
type SessionRateLimiter struct {
	mu       sync.Mutex
	cooldown time.Duration
	lastSeen map[string]time.Time
	now      func() time.Time
}

// NewSessionRateLimiter creates a limiter with the given cooldown.
func NewSessionRateLimiter(cooldown time.Duration) *SessionRateLimiter {
	return &SessionRateLimiter{
		cooldown: cooldown,
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Allow records an attempt for the session and reports whether enough time
// has passed since the previous one. A denied attempt does not reset the
// clock.
func (rl *SessionRateLimiter) Allow(sessionID string) error {
	if sessionID == "" {
		sessionID = "default"
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if last, ok := rl.lastSeen[sessionID]; ok {
		if wait := rl.cooldown - now.Sub(last); wait > 0 {
			return fmt.Errorf("%w: retry in %s", ErrRateLimited, wait.Round(time.Millisecond))
		}
	}
	rl.lastSeen[sessionID] = now
	return nil
}
