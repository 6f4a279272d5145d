package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerRemaining(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	deadline := start.Add(60 * time.Second)
	timer := NewTimer(&deadline)

	left, ok := timer.Remaining(start)
	assert.True(t, ok)
	assert.Equal(t, 60*time.Second, left)

	left, ok = timer.Remaining(start.Add(45 * time.Second))
	assert.True(t, ok)
	assert.Equal(t, 15*time.Second, left)

	// Clamped at zero, never negative
	left, ok = timer.Remaining(start.Add(2 * time.Minute))
	assert.True(t, ok)
	assert.Equal(t, time.Duration(0), left)
}

func TestTimerExpired(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	deadline := start.Add(60 * time.Second)
	timer := NewTimer(&deadline)

	assert.False(t, timer.Expired(start))
	assert.False(t, timer.Expired(start.Add(59*time.Second)))
	assert.True(t, timer.Expired(start.Add(60*time.Second)))
	assert.True(t, timer.Expired(start.Add(time.Hour)))
}

func TestTimerUntimedNeverExpires(t *testing.T) {
	timer := NewTimer(nil)

	for _, offset := range []time.Duration{0, time.Second, time.Hour, 24 * 365 * time.Hour} {
		now := time.Now().Add(offset)
		assert.False(t, timer.Expired(now))

		_, ok := timer.Remaining(now)
		assert.False(t, ok)
	}
	assert.Nil(t, timer.Deadline())
}
