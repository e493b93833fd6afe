package testutil

import (
	"sync"
	"time"
)

// Epoch is where a new Clock starts unless told otherwise.
var Epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// Clock is a manual time source. Pass clock.Now wherever code accepts a
// func() time.Time.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a Clock at start, or at Epoch when start is omitted.
func NewClock(start ...time.Time) *Clock {
	t := Epoch
	if len(start) > 0 {
		t = start[0]
	}
	return &Clock{now: t}
}

// Now returns the clock's current time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
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

// Ticking returns a time source that reports the current time and then
// advances the clock by step, so consecutive readings never tie.
func (c *Clock) Ticking(step time.Duration) func() time.Time {
	return func() time.Time {
		c.mu.Lock()
		defer c.mu.Unlock()
		t := c.now
		c.now = c.now.Add(step)
		return t
	}
}
