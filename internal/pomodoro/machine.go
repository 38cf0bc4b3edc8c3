package pomodoro

import (
	"context"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"pomodoro_tui/internal/clock"
	"pomodoro_tui/internal/phase"
	"pomodoro_tui/internal/timelog"
	"pomodoro_tui/internal/timer"
)

// TickInterval is how often the countdown loses one second.
const TickInterval = time.Second

// Recorder receives every completed phase.
type Recorder interface {
	Append(ctx context.Context, dayKey string, rec timelog.Record)
}

type Options struct {
	Clock     clock.Clock
	Durations phase.Durations
	Recorder  Recorder
	Scheduler timer.Scheduler
	Logger    *slog.Logger
}

// Ack describes a finished phase waiting to be acknowledged.
type Ack struct {
	Completed phase.Phase
	Next      phase.Phase
	Record    timelog.Record
}

// Snapshot is what presentation renders.
type Snapshot struct {
	Mode             phase.Phase
	RemainingSeconds int
	Running          bool
	Pending          *Ack
}

// AwaitingAck reports whether a finished phase needs acknowledging.
func (s Snapshot) AwaitingAck() bool {
	return s.Pending != nil
}

// Machine alternates focus and break phases. All methods are safe to call
// from any goroutine; every intent is applied atomically.
type Machine struct {
	mu sync.Mutex

	mode         phase.Phase
	remaining    int
	running      bool
	sessionStart *time.Time
	pending      *Ack

	task timer.Task
	gen  uint64

	clock     clock.Clock
	durations phase.Durations
	recorder  Recorder
	scheduler timer.Scheduler
	logger    *slog.Logger
}

func New(opts Options) *Machine {
	if opts.Clock == nil {
		opts.Clock = clock.SystemClock{}
	}
	if opts.Scheduler == nil {
		opts.Scheduler = timer.Ticker{}
	}
	if opts.Durations == nil {
		opts.Durations = phase.Fixed{Focus: "25", Break: "5"}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := &Machine{
		mode:      phase.Focus,
		clock:     opts.Clock,
		durations: opts.Durations,
		recorder:  opts.Recorder,
		scheduler: opts.Scheduler,
		logger:    opts.Logger,
	}
	m.remaining = m.full(phase.Focus)
	return m
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Snapshot{
		Mode:             m.mode,
		RemainingSeconds: m.remaining,
		Running:          m.running,
	}
	if m.pending != nil {
		ack := *m.pending
		s.Pending = &ack
	}
	return s
}

func (m *Machine) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.start()
}

func (m *Machine) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending != nil {
		return
	}
	m.stop()
}

// Toggle starts an idle timer or pauses a running one.
func (m *Machine) Toggle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		m.stop()
		return
	}
	m.start()
}

// Reset stops the countdown and refills the current phase.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending != nil {
		return
	}
	m.stop()
	m.remaining = m.full(m.mode)
	m.sessionStart = nil
}

// SwitchPhase flips to the other phase without recording anything. A
// running countdown keeps running in the new phase.
func (m *Machine) SwitchPhase() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending != nil {
		return
	}

	wasRunning := m.running
	m.stop()
	m.mode = m.mode.Next()
	m.remaining = m.full(m.mode)
	m.sessionStart = nil
	m.logger.Debug("phase switched manually", "mode", m.mode)

	if wasRunning {
		m.start()
	}
}

// Acknowledge dismisses a finished phase and starts the next one.
func (m *Machine) Acknowledge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return
	}

	m.mode = m.pending.Next
	m.pending = nil
	m.remaining = m.full(m.mode)
	m.start()
}

// DurationConfigChanged keeps an idle display in step with edited
// settings for the phase currently shown.
func (m *Machine) DurationConfigChanged(p phase.Phase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p != m.mode || m.running || m.pending != nil {
		return
	}
	m.remaining = m.full(m.mode)
}

func (m *Machine) full(p phase.Phase) int {
	return phase.Nominal(p, m.durations)
}

func (m *Machine) start() {
	if m.running || m.pending != nil {
		return
	}

	full := m.full(m.mode)
	if m.remaining <= 0 {
		m.remaining = full
	}
	if m.sessionStart == nil || m.remaining == full {
		now := m.clock.Now()
		m.sessionStart = &now
	}

	m.running = true
	m.gen++
	gen := m.gen
	m.task = m.scheduler.Every(TickInterval, func() { m.tick(gen) })
	m.logger.Debug("countdown started", "mode", m.mode, "remaining", m.remaining)
}

// stop cancels the countdown. Safe to call when already stopped.
func (m *Machine) stop() {
	if m.task != nil {
		m.task.Stop()
		m.task = nil
	}
	if m.running {
		m.logger.Debug("countdown stopped", "mode", m.mode, "remaining", m.remaining)
	}
	m.running = false
}

// tick runs one countdown step. A finished phase is recorded after the lock
// is released so a slow store never blocks Snapshot.
func (m *Machine) tick(gen uint64) {
	m.mu.Lock()
	if !m.running || gen != m.gen {
		m.mu.Unlock()
		return
	}

	m.remaining--
	var finished *timelog.Record
	if m.remaining <= 0 {
		m.remaining = 0
		rec := m.complete()
		finished = &rec
	}
	recorder := m.recorder
	m.mu.Unlock()

	if finished != nil && recorder != nil {
		recorder.Append(context.Background(), clock.DayKey(finished.End), *finished)
	}
}

// complete ends the current phase and returns its record for the caller to
// persist.
func (m *Machine) complete() timelog.Record {
	m.stop()

	end := m.clock.Now()
	nominal := m.full(m.mode)
	rec := timelog.Record{
		Mode:            m.mode,
		Start:           end.Add(-time.Duration(nominal) * time.Second),
		End:             end,
		DurationSeconds: nominal,
	}
	if m.sessionStart != nil {
		rec.Start = *m.sessionStart
		rec.DurationSeconds = int(math.Round(end.Sub(*m.sessionStart).Seconds()))
	}
	m.sessionStart = nil

	m.pending = &Ack{Completed: m.mode, Next: m.mode.Next(), Record: rec}
	m.logger.Info("phase completed", "mode", rec.Mode, "seconds", rec.DurationSeconds)
	return rec
}
