package timezone

import "time"

// Clock is the source of "now" for code that must be testable against a frozen time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return Now()
}

func NewSystemClock() Clock {
	return systemClock{}
}

// StartOfDay returns midnight of t's calendar day in the application timezone.
func StartOfDay(t time.Time) time.Time {
	local := ToAppTime(t)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time {
	return c.at
}

// NewFixedClock returns a clock frozen at t.
func NewFixedClock(t time.Time) Clock {
	return fixedClock{at: t}
}
