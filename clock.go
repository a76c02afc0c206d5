package auth

import "time"

// Clock provides the current time. Token validity windows and renewal are
// computed against it so callers can pin time in tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time {
	if f == nil {
		return time.Now()
	}
	return f()
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

func normalizeClock(c Clock) Clock {
	if c == nil {
		return SystemClock{}
	}
	return c
}
