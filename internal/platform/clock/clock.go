package clock

import (
	"sync"
	"time"
)

// Clock abstracts time so request timing can be asserted in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Stepped starts at a fixed instant and advances by Step on every call.
type Stepped struct {
	mu   sync.Mutex
	at   time.Time
	step time.Duration
}

func NewStepped(start time.Time, step time.Duration) *Stepped {
	return &Stepped{at: start, step: step}
}

func (c *Stepped) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.at
	c.at = c.at.Add(c.step)
	return now
}
