package internal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pomodoro_tui/internal/clock"
	"pomodoro_tui/internal/logging"
	"pomodoro_tui/internal/phase"
	"pomodoro_tui/internal/pomodoro"
	"pomodoro_tui/internal/stats"
	"pomodoro_tui/internal/timelog"
	"pomodoro_tui/internal/timer"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgTick is the once-a-second wall clock update.
type MsgTick struct{}

// msgTask carries a countdown tick onto the Update goroutine.
type msgTask struct{ fn func() }

// Settings is the editable duration configuration.
type Settings interface {
	phase.Durations
	SetMinutes(p phase.Phase, raw string) bool
	Save() error
}

type Options struct {
	Clock    clock.Clock
	Settings Settings
	Store    *timelog.Store
	Logger   *slog.Logger
	// Scheduler drives the countdown. When nil, one-second ticks are
	// delivered through the program's message loop.
	Scheduler timer.Scheduler
}

type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmClearToday
	confirmClearAll
)

type Model struct {
	Machine *pomodoro.Machine
	Stats   *stats.Tracker
	Now     time.Time
	Message string

	clock    clock.Clock
	settings Settings
	store    *timelog.Store
	logger   *slog.Logger
	tasks    chan func()
	done     chan struct{}
	awaiting bool

	keys     keyMap
	help     help.Model
	ShowHelp bool
	width    int

	// Duration form
	ShowSettingsForm bool
	FocusInput       string
	BreakInput       string
	InputFocus       int

	Confirm confirmAction

	// Today's log viewer
	ShowLogView   bool
	LogViewScroll int
	TodayLogs     []timelog.Record
}

func NewModel(opts Options) *Model {
	if opts.Clock == nil {
		opts.Clock = clock.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	m := &Model{
		clock:    opts.Clock,
		settings: opts.Settings,
		store:    opts.Store,
		logger:   opts.Logger,
		tasks:    make(chan func(), 16),
		done:     make(chan struct{}),
		keys:     defaultKeys(),
		help:     help.New(),
	}

	sched := opts.Scheduler
	if sched == nil {
		sched = timer.Ticker{Dispatch: m.dispatch}
	}

	m.Now = m.clock.Now()
	m.Machine = pomodoro.New(pomodoro.Options{
		Clock:     m.clock,
		Durations: opts.Settings,
		Recorder:  opts.Store,
		Scheduler: sched,
		Logger:    opts.Logger,
	})
	m.Stats = stats.NewTracker(context.Background(), opts.Store, m.Now)
	return m
}

// dispatch queues fn for the Update loop.
func (m *Model) dispatch(fn func()) {
	select {
	case m.tasks <- fn:
	case <-m.done:
	}
}

func waitForTask(tasks <-chan func()) tea.Cmd {
	return func() tea.Msg {
		return msgTask{fn: <-tasks}
	}
}

func (m *Model) Init() tea.Cmd {
	return waitForTask(m.tasks)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgTick:
		m.Now = m.clock.Now()
		if m.Stats.Observe(context.Background(), m.Now) {
			m.logger.Info("day rolled over", "day", m.Stats.Day())
		}
		return m, nil
	case msgTask:
		msg.fn()
		m.syncMachine()
		return m, waitForTask(m.tasks)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	}
	return m, nil
}

// syncMachine refreshes today's totals once a finished phase has been logged.
func (m *Model) syncMachine() {
	snap := m.Machine.Snapshot()
	fresh := snap.AwaitingAck() && !m.awaiting
	m.awaiting = snap.AwaitingAck()
	if fresh {
		m.Stats.Refresh(context.Background())
		m.Message = ""
	}
}

func (m *Model) View() string {
	if m.Machine.Snapshot().AwaitingAck() {
		return m.ackView()
	}

	if m.Confirm != confirmNone {
		return m.confirmView()
	}

	if m.ShowSettingsForm {
		return m.settingsFormView()
	}

	if m.ShowLogView {
		return m.todayLogView()
	}

	return m.mainView()
}

// Close stops the countdown and releases the tick goroutine.
func (m *Model) Close() {
	m.Machine.Pause()
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.Machine.Snapshot().AwaitingAck() {
		return m.handleAckInput(msg)
	}

	if m.Confirm != confirmNone {
		return m.handleConfirmInput(msg)
	}

	if m.ShowSettingsForm {
		return m.handleFormInput(msg)
	}

	if m.ShowLogView {
		return m.handleLogViewInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		m.Machine.Toggle()
		m.Message = ""
	case key.Matches(msg, m.keys.Reset):
		m.Machine.Reset()
		m.Message = ""
	case key.Matches(msg, m.keys.Switch):
		m.Machine.SwitchPhase()
		m.Message = fmt.Sprintf("Switched to %s manually.", m.Machine.Snapshot().Mode.Label())
	case key.Matches(msg, m.keys.Settings):
		m.ShowSettingsForm = true
		m.FocusInput = m.settings.FocusMinutes()
		m.BreakInput = m.settings.BreakMinutes()
		m.InputFocus = 0
	case key.Matches(msg, m.keys.Log):
		m.TodayLogs = m.store.Day(context.Background(), m.Stats.Day())
		m.ShowLogView = true
		m.LogViewScroll = 0
	case key.Matches(msg, m.keys.Clear):
		m.Confirm = confirmClearToday
	case key.Matches(msg, m.keys.ClearAll):
		m.Confirm = confirmClearAll
	case key.Matches(msg, m.keys.Help):
		m.ShowHelp = !m.ShowHelp
		m.help.ShowAll = m.ShowHelp
	}
	return m, nil
}

func (m *Model) handleAckInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", " ", "y":
		next := m.Machine.Snapshot().Pending.Next
		m.Machine.Acknowledge()
		m.awaiting = false
		m.Message = fmt.Sprintf("Now in %s mode.", next.Label())
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleConfirmInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		ctx := context.Background()
		switch m.Confirm {
		case confirmClearToday:
			if err := m.store.ClearDay(ctx, m.Stats.Day()); err != nil {
				m.Message = "Could not clear today's log."
			} else {
				m.Message = "Today's log cleared."
			}
		case confirmClearAll:
			if err := m.store.ClearAll(ctx); err != nil {
				m.Message = "Could not clear the log."
			} else {
				m.Message = "All logs cleared."
			}
		}
		m.Stats.Refresh(ctx)
		m.Confirm = confirmNone
	case "n", "N", "esc", "q":
		m.Confirm = confirmNone
	}
	return m, nil
}

func (m *Model) handleLogViewInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "l":
		m.ShowLogView = false
		m.TodayLogs = nil
	case "up", "k":
		if m.LogViewScroll > 0 {
			m.LogViewScroll--
		}
	case "down", "j":
		maxScroll := max(len(m.TodayLogs)-1, 0)
		if m.LogViewScroll < maxScroll {
			m.LogViewScroll++
		}
	}
	return m, nil
}

func (m *Model) handleFormInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ShowSettingsForm = false
	case "enter":
		if m.InputFocus == 0 {
			m.InputFocus = 1
			return m, nil
		}
		m.applySettings()
		m.ShowSettingsForm = false
	case "backspace":
		if m.InputFocus == 0 {
			if len(m.FocusInput) > 0 {
				m.FocusInput = m.FocusInput[:len(m.FocusInput)-1]
			}
		} else {
			if len(m.BreakInput) > 0 {
				m.BreakInput = m.BreakInput[:len(m.BreakInput)-1]
			}
		}
	case "tab", "shift+tab", "up", "down":
		m.InputFocus = 1 - m.InputFocus
	default:
		runes := []rune(msg.String())
		if len(runes) == 1 && runes[0] >= '0' && runes[0] <= '9' {
			if m.InputFocus == 0 {
				m.FocusInput += string(runes[0])
			} else {
				m.BreakInput += string(runes[0])
			}
		}
	}
	return m, nil
}

func (m *Model) applySettings() {
	changed := false
	for _, edit := range []struct {
		p   phase.Phase
		raw string
	}{
		{phase.Focus, m.FocusInput},
		{phase.Break, m.BreakInput},
	} {
		if m.settings.SetMinutes(edit.p, edit.raw) {
			m.Machine.DurationConfigChanged(edit.p)
			changed = true
		}
	}
	if !changed {
		return
	}
	if err := m.settings.Save(); err != nil {
		m.logger.Error("failed to save settings", "err", err)
		m.Message = "Lengths applied but not saved."
		return
	}
	m.Message = "Lengths saved."
}
