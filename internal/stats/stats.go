package stats

import (
	"context"
	"sync"
	"time"

	"pomodoro_tui/internal/clock"
	"pomodoro_tui/internal/phase"
	"pomodoro_tui/internal/timelog"
)

// Source returns the records logged for one day.
type Source interface {
	Day(ctx context.Context, dayKey string) []timelog.Record
}

// Summary totals one day. A cycle is one completed break.
type Summary struct {
	FocusSeconds int
	BreakSeconds int
	Cycles       int
}

func (s Summary) FocusMinutes() int { return s.FocusSeconds / 60 }
func (s Summary) BreakMinutes() int { return s.BreakSeconds / 60 }

func Aggregate(ctx context.Context, src Source, dayKey string) Summary {
	var s Summary
	for _, rec := range src.Day(ctx, dayKey) {
		if rec.Mode == phase.Focus {
			s.FocusSeconds += rec.DurationSeconds
			continue
		}
		s.BreakSeconds += rec.DurationSeconds
		s.Cycles++
	}
	return s
}

// Tracker caches today's summary and notices when the local date changes.
type Tracker struct {
	mu      sync.Mutex
	src     Source
	day     string
	summary Summary
}

func NewTracker(ctx context.Context, src Source, now time.Time) *Tracker {
	t := &Tracker{src: src, day: clock.DayKey(now)}
	t.summary = Aggregate(ctx, src, t.day)
	return t
}

// Observe moves the tracker to the day containing now. It reports whether
// the day changed, in which case the summary has been recomputed.
func (t *Tracker) Observe(ctx context.Context, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	day := clock.DayKey(now)
	if day == t.day {
		return false
	}
	t.day = day
	t.summary = Aggregate(ctx, t.src, day)
	return true
}

// Refresh recomputes the summary after the log was written or cleared.
func (t *Tracker) Refresh(ctx context.Context) Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.summary = Aggregate(ctx, t.src, t.day)
	return t.summary
}

func (t *Tracker) Day() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.day
}

func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.summary
}
