package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepped(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewStepped(start, time.Second)
	assert.Equal(t, start, c.Now())
	assert.Equal(t, start.Add(time.Second), c.Now())
	assert.Equal(t, 2*time.Second, c.Now().Sub(start))
}

func TestSystemClockIsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, SystemClock{}.Now().Location())
}
