// Package pomodorotest provides a fake clock and a hand-cranked scheduler
// for driving a pomodoro.Machine one tick at a time.
package pomodorotest

import (
	"sync"
	"time"

	"pomodoro_tui/internal/timer"
)

type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ManualScheduler only fires tasks when Tick is called. If Clock is set,
// each Tick first advances it by the task interval.
type ManualScheduler struct {
	Clock *FakeClock

	mu      sync.Mutex
	tasks   []*manualTask
	started int
}

var _ timer.Scheduler = (*ManualScheduler)(nil)

type manualTask struct {
	interval time.Duration
	fn       func()
	stopped  bool
}

func (t *manualTask) Stop() { t.stopped = true }

func (s *ManualScheduler) Every(interval time.Duration, fn func()) timer.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{interval: interval, fn: fn}
	s.tasks = append(s.tasks, t)
	s.started++
	return t
}

// Tick fires every live task once and reports how many fired.
func (s *ManualScheduler) Tick() int {
	s.mu.Lock()
	live := s.live()
	s.mu.Unlock()

	if len(live) > 0 && s.Clock != nil {
		s.Clock.Advance(live[0].interval)
	}
	for _, t := range live {
		t.fn()
	}
	return len(live)
}

// TickN calls Tick n times.
func (s *ManualScheduler) TickN(n int) {
	for range n {
		s.Tick()
	}
}

// Active is the number of tasks that have not been stopped.
func (s *ManualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live())
}

// Started is the number of tasks ever scheduled.
func (s *ManualScheduler) Started() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *ManualScheduler) live() []*manualTask {
	var live []*manualTask
	for _, t := range s.tasks {
		if !t.stopped {
			live = append(live, t)
		}
	}
	s.tasks = live
	return live
}
