package session

import (
	"math"
	"sync"
	"time"
)

// Limiter enforces a fixed per-user cooldown between accepted requests.
// The cooldown is global per user, shared across all generation modes.
// A check never mutates state; the acceptance timestamp is recorded only
// when the request is actually dispatched, via Stamp.
type Limiter struct {
	mu       sync.Mutex
	last     map[int64]time.Time
	cooldown time.Duration
	now      func() time.Time
}

// NewLimiter creates a limiter with the given cooldown. The now function may
// be nil, in which case time.Now is used; tests inject a fake clock.
func NewLimiter(cooldown time.Duration, now func() time.Time) *Limiter {
	if now == nil {
		now = time.Now
	}
	return &Limiter{
		last:     make(map[int64]time.Time),
		cooldown: cooldown,
		now:      now,
	}
}

// Check reports whether the user may dispatch a request now. When rejected,
// remainingSeconds is the positive number of whole seconds until the
// cooldown expires.
func (l *Limiter) Check(userID int64) (allowed bool, remainingSeconds int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	last, ok := l.last[userID]
	if !ok {
		return true, 0
	}

	elapsed := l.now().Sub(last)
	if elapsed >= l.cooldown {
		return true, 0
	}

	remaining := int(math.Ceil((l.cooldown - elapsed).Seconds()))
	if remaining < 1 {
		remaining = 1
	}
	return false, remaining
}

// Stamp records an accepted dispatch for the user.
func (l *Limiter) Stamp(userID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last[userID] = l.now()
}
