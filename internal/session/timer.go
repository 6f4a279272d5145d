package session

import "time"

// Timer is a pure function of a fixed deadline and a supplied "now". Nothing
// is decremented over time, so the timer cannot drift while the process is
// suspended, and tests can inject arbitrary clock values. A nil deadline
// means the session is untimed and never expires.
type Timer struct {
	deadline *time.Time
}

func NewTimer(deadline *time.Time) Timer {
	return Timer{deadline: deadline}
}

// Remaining returns max(0, deadline-now). ok is false for untimed sessions,
// where remaining time has no meaning.
func (t Timer) Remaining(now time.Time) (time.Duration, bool) {
	if t.deadline == nil {
		return 0, false
	}
	left := t.deadline.Sub(now)
	if left < 0 {
		left = 0
	}
	return left, true
}

// Expired reports whether now has reached the deadline. Untimed sessions
// never expire.
func (t Timer) Expired(now time.Time) bool {
	left, ok := t.Remaining(now)
	return ok && left == 0
}

func (t Timer) Deadline() *time.Time {
	return t.deadline
}
