package testutil

import (
	"sync"
	"time"
)

// Clock provides a controllable time source for tests. Its Now method can be
// handed to repositories in place of time.Now.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewClock returns a Clock initialized to the given time.
// If no time is provided, it defaults to a fixed point:
// 2025-01-01 00:00:00 UTC.
func NewClock(now ...time.Time) *Clock {
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if len(now) > 0 {
		t = now[0]
	}
	return &Clock{now: t}
}

// Now returns the clock's current time, then advances it by the configured
// auto-step (zero unless AutoStep was called).
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// AutoStep makes every Now call advance the clock by d, so consecutive
// writes get strictly increasing timestamps.
func (c *Clock) AutoStep(d time.Duration) *Clock {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = d
	return c
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set overrides the clock's current time.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
