package clock

import "time"

// Clock abstracts wall time so the timer can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// DayKey formats the calendar date of t, in t's own location, as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
