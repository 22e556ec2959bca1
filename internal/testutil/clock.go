package testutil

import (
	"sync"
	"time"
)

// DefaultEpoch is the first instant a DeterministicClock reports.
var DefaultEpoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// DeterministicClock hands out monotonically increasing ISO-8601 UTC
// timestamps one second apart, starting at its epoch.
//
// The same test run against a fresh clock produces byte-identical
// createdAt values, which keeps golden files stable.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu    sync.Mutex
	epoch time.Time
	seq   int64
}

// NewDeterministicClock creates a clock starting at DefaultEpoch.
//
// The first call to Next() returns "2026-01-01T00:00:00Z".
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{epoch: DefaultEpoch}
}

// Next returns the next timestamp and advances the clock.
func (c *DeterministicClock) Next() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts := c.format(c.seq)
	c.seq++
	return ts
}

// Current returns the timestamp the next call to Next() will return.
func (c *DeterministicClock) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.format(c.seq)
}

// Reset rewinds the clock to its epoch.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}

func (c *DeterministicClock) format(seq int64) string {
	return c.epoch.Add(time.Duration(seq) * time.Second).Format("2006-01-02T15:04:05Z")
}
