package session_test

import (
	"testing"
	"time"

	"github.com/pentabot/pentabot/internal/session"
)

// fakeClock is a manually advanced time source for limiter tests.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time { return c.current }

func (c *fakeClock) advance(d time.Duration) { c.current = c.current.Add(d) }

func TestLimiterAllowsFirstRequest(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{current: time.Unix(1000, 0)}
	l := session.NewLimiter(10*time.Second, clock.now)

	allowed, remaining := l.Check(1)
	if !allowed {
		t.Fatal("expected first request to be allowed")
	}
	if remaining != 0 {
		t.Errorf("expected 0 remaining seconds, got %d", remaining)
	}
}

func TestLimiterRejectsWithinCooldown(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name              string
		elapsed           time.Duration
		expectedAllowed   bool
		expectedRemaining int
	}{
		{name: "immediately after stamp", elapsed: 0, expectedAllowed: false, expectedRemaining: 10},
		{name: "midway through cooldown", elapsed: 4 * time.Second, expectedAllowed: false, expectedRemaining: 6},
		{name: "fractional remainder rounds up", elapsed: 9500 * time.Millisecond, expectedAllowed: false, expectedRemaining: 1},
		{name: "exactly at cooldown", elapsed: 10 * time.Second, expectedAllowed: true, expectedRemaining: 0},
		{name: "after cooldown", elapsed: 11 * time.Second, expectedAllowed: true, expectedRemaining: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			clock := &fakeClock{current: time.Unix(1000, 0)}
			l := session.NewLimiter(10*time.Second, clock.now)
			l.Stamp(1)
			clock.advance(tc.elapsed)

			allowed, remaining := l.Check(1)
			if allowed != tc.expectedAllowed {
				t.Errorf("expected allowed=%v, got %v", tc.expectedAllowed, allowed)
			}
			if remaining != tc.expectedRemaining {
				t.Errorf("expected %d remaining seconds, got %d", tc.expectedRemaining, remaining)
			}
		})
	}
}

func TestLimiterCheckDoesNotExtendWindow(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{current: time.Unix(1000, 0)}
	l := session.NewLimiter(10*time.Second, clock.now)
	l.Stamp(1)

	// Repeated rejected checks must not push the window forward.
	for i := 0; i < 5; i++ {
		clock.advance(time.Second)
		l.Check(1)
	}
	clock.advance(5 * time.Second)

	if allowed, _ := l.Check(1); !allowed {
		t.Error("expected request to be allowed once the original cooldown elapsed")
	}
}

func TestLimiterIsPerUser(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{current: time.Unix(1000, 0)}
	l := session.NewLimiter(10*time.Second, clock.now)
	l.Stamp(1)

	if allowed, _ := l.Check(2); !allowed {
		t.Error("expected other user to be unaffected by the cooldown")
	}
	if allowed, _ := l.Check(1); allowed {
		t.Error("expected stamped user to be rejected")
	}
}
