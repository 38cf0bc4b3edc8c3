package timer

import (
	"sync"
	"time"
)

// Task is a handle to a repeating callback. Stop may be called any number
// of times.
type Task interface {
	Stop()
}

// Scheduler starts repeating tasks.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Task
}

// Dispatch hands fn to the goroutine that owns the timer's subscriber.
// Inline runs it directly on the ticker goroutine.
type Dispatch func(fn func())

func Inline(fn func()) { fn() }

type Timer struct {
	mu       sync.RWMutex
	ticks    int
	running  bool
	interval time.Duration
	fire     func()
	dispatch Dispatch
	stopChan chan struct{}
}

var _ Task = (*Timer)(nil)

func New(interval time.Duration, fire func(), dispatch Dispatch) *Timer {
	if dispatch == nil {
		dispatch = Inline
	}
	return &Timer{
		interval: interval,
		fire:     fire,
		dispatch: dispatch,
		stopChan: make(chan struct{}),
	}
}

func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}

	t.running = true
	t.stopChan = make(chan struct{})
	stop := t.stopChan

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				t.dispatch(t.tick)
			}
		}
	}()
}

// tick runs on the dispatch goroutine, so a Stop that was processed there
// first suppresses it.
func (t *Timer) tick() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.ticks++
	t.mu.Unlock()

	t.fire()
}

func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}

	t.running = false
	close(t.stopChan)
}

func (t *Timer) Ticks() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ticks
}

func (t *Timer) Running() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}

// Ticker is the wall-clock Scheduler.
type Ticker struct {
	Dispatch Dispatch
}

var _ Scheduler = Ticker{}

func (s Ticker) Every(interval time.Duration, fn func()) Task {
	t := New(interval, fn, s.Dispatch)
	t.Start()
	return t
}
