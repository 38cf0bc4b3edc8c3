package internal

import (
	"context"
	"errors"
	"testing"
	"time"

	"pomodoro_tui/internal/phase"
	"pomodoro_tui/internal/pomodoro/pomodorotest"
	"pomodoro_tui/internal/storage"
	"pomodoro_tui/internal/timelog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	focus, brk string
	saves      int
	saveErr    error
}

func (s *fakeSettings) FocusMinutes() string { return s.focus }
func (s *fakeSettings) BreakMinutes() string { return s.brk }

func (s *fakeSettings) SetMinutes(p phase.Phase, raw string) bool {
	target := &s.brk
	if p == phase.Focus {
		target = &s.focus
	}
	if *target == raw {
		return false
	}
	*target = raw
	return true
}

func (s *fakeSettings) Save() error {
	s.saves++
	return s.saveErr
}

type testModel struct {
	*Model
	t        *testing.T
	clock    *pomodorotest.FakeClock
	sched    *pomodorotest.ManualScheduler
	store    *timelog.Store
	settings *fakeSettings
}

func newTestModel(t *testing.T, focus, brk string) *testModel {
	t.Helper()

	fake := pomodorotest.NewFakeClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	sched := &pomodorotest.ManualScheduler{Clock: fake}
	store := timelog.NewStore(storage.NewMemory(), nil)
	settings := &fakeSettings{focus: focus, brk: brk}

	m := NewModel(Options{
		Clock:     fake,
		Settings:  settings,
		Store:     store,
		Scheduler: sched,
	})
	t.Cleanup(m.Close)

	return &testModel{Model: m, t: t, clock: fake, sched: sched, store: store, settings: settings}
}

func (tm *testModel) press(keys ...string) {
	tm.t.Helper()
	for _, k := range keys {
		tm.Update(keyMsg(k))
	}
}

// tick runs n countdown ticks the way the program loop delivers them.
func (tm *testModel) tick(n int) {
	tm.t.Helper()
	for range n {
		_, cmd := tm.Update(msgTask{fn: func() { tm.sched.Tick() }})
		require.NotNil(tm.t, cmd)
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestNewModelShowsIdleFocus(t *testing.T) {
	tm := newTestModel(t, "25", "5")

	view := tm.View()
	assert.Contains(t, view, "Focus mode")
	assert.Contains(t, view, "25:00")
	assert.Contains(t, view, "Paused")
	assert.Contains(t, view, "09:00:00")
	assert.Contains(t, view, "Cycles  0")
}

func TestSpaceTogglesCountdown(t *testing.T) {
	tm := newTestModel(t, "25", "5")

	tm.press("space")
	assert.True(t, tm.Machine.Snapshot().Running)
	assert.Equal(t, 1, tm.sched.Active())

	tm.tick(3)
	assert.Contains(t, tm.View(), "24:57")
	assert.Contains(t, tm.View(), "Running")

	tm.press("space")
	assert.False(t, tm.Machine.Snapshot().Running)
	assert.Zero(t, tm.sched.Active())
}

func TestCompletedPhaseWaitsForAcknowledgement(t *testing.T) {
	tm := newTestModel(t, "1", "1")

	tm.press("space")
	tm.tick(60)

	view := tm.View()
	assert.Contains(t, view, "Focus finished.")
	assert.Contains(t, view, "Logged 01:00.")
	assert.Contains(t, view, "Enter: start break")
	assert.Equal(t, 60, tm.Stats.Summary().FocusSeconds)

	// Main screen keys are ignored until the prompt is answered.
	tm.press("s", "r", "e")
	assert.True(t, tm.Machine.Snapshot().AwaitingAck())
	assert.False(t, tm.ShowSettingsForm)

	tm.press("enter")
	snap := tm.Machine.Snapshot()
	assert.False(t, snap.AwaitingAck())
	assert.Equal(t, phase.Break, snap.Mode)
	assert.True(t, snap.Running)
	assert.Equal(t, "Now in Break mode.", tm.Message)
}

func TestFullCycleUpdatesTodayTotals(t *testing.T) {
	tm := newTestModel(t, "25", "5")

	tm.press("space")
	tm.tick(1500)
	tm.press("enter")
	tm.tick(300)
	tm.press("enter")

	s := tm.Stats.Summary()
	assert.Equal(t, 25, s.FocusMinutes())
	assert.Equal(t, 5, s.BreakMinutes())
	assert.Equal(t, 1, s.Cycles)
	assert.Contains(t, tm.View(), "Cycles  1")
}

func TestSwitchKeyChangesPhaseWithoutLogging(t *testing.T) {
	tm := newTestModel(t, "25", "5")

	tm.press("space")
	tm.tick(10)
	tm.press("s")

	snap := tm.Machine.Snapshot()
	assert.Equal(t, phase.Break, snap.Mode)
	assert.Equal(t, 300, snap.RemainingSeconds)
	assert.True(t, snap.Running)
	assert.Equal(t, "Switched to Break manually.", tm.Message)
	assert.Empty(t, tm.store.Load(context.Background()))
}

func TestResetKeyRefillsPhase(t *testing.T) {
	tm := newTestModel(t, "25", "5")

	tm.press("space")
	tm.tick(30)
	tm.press("r")

	snap := tm.Machine.Snapshot()
	assert.False(t, snap.Running)
	assert.Equal(t, 1500, snap.RemainingSeconds)
}

func TestSettingsFormAppliesAndSavesLengths(t *testing.T) {
	tm := newTestModel(t, "25", "5")

	tm.press("e")
	require.True(t, tm.ShowSettingsForm)
	assert.Equal(t, "25", tm.FocusInput)
	assert.Contains(t, tm.View(), "Phase Lengths")

	tm.press("backspace", "backspace", "4", "x", "0", "enter", "enter")

	assert.False(t, tm.ShowSettingsForm)
	assert.Equal(t, "40", tm.settings.focus)
	assert.Equal(t, "5", tm.settings.brk)
	assert.Equal(t, 1, tm.settings.saves)
	assert.Equal(t, "Lengths saved.", tm.Message)
	assert.Equal(t, 2400, tm.Machine.Snapshot().RemainingSeconds)
}

func TestSettingsFormUnchangedDoesNotSave(t *testing.T) {
	tm := newTestModel(t, "25", "5")

	tm.press("e", "enter", "enter")

	assert.False(t, tm.ShowSettingsForm)
	assert.Zero(t, tm.settings.saves)
	assert.Empty(t, tm.Message)
}

func TestSettingsFormCancelKeepsLengths(t *testing.T) {
	tm := newTestModel(t, "25", "5")

	tm.press("e", "9", "esc")

	assert.False(t, tm.ShowSettingsForm)
	assert.Equal(t, "25", tm.settings.focus)
}

func TestSettingsSaveFailureStillApplies(t *testing.T) {
	tm := newTestModel(t, "25", "5")
	tm.settings.saveErr = errors.New("read-only")

	tm.press("e", "tab", "backspace", "7", "enter")

	assert.Equal(t, "7", tm.settings.brk)
	assert.Equal(t, "Lengths applied but not saved.", tm.Message)
}

func TestRunningCountdownIgnoresEditedLength(t *testing.T) {
	tm := newTestModel(t, "25", "5")

	tm.press("space")
	tm.tick(5)
	tm.press("e", "backspace", "backspace", "1", "0", "enter", "enter")

	assert.Equal(t, "10", tm.settings.focus)
	assert.Equal(t, 1495, tm.Machine.Snapshot().RemainingSeconds)
}

func TestClearTodayAfterConfirmation(t *testing.T) {
	tm := newTestModel(t, "1", "1")

	tm.press("space")
	tm.tick(60)
	tm.press("enter")
	require.Equal(t, 60, tm.Stats.Summary().FocusSeconds)

	tm.press("c")
	assert.Contains(t, tm.View(), "Delete today's log?")
	tm.press("n")
	assert.Equal(t, 60, tm.Stats.Summary().FocusSeconds)

	tm.press("c", "y")
	assert.Zero(t, tm.Stats.Summary().FocusSeconds)
	assert.Equal(t, "Today's log cleared.", tm.Message)
	assert.Empty(t, tm.store.Day(context.Background(), "2024-05-01"))
}

func TestClearAllRemovesEveryDay(t *testing.T) {
	tm := newTestModel(t, "25", "5")
	ctx := context.Background()
	tm.store.Append(ctx, "2024-04-30", timelog.Record{Mode: phase.Focus, DurationSeconds: 60})
	tm.store.Append(ctx, "2024-05-01", timelog.Record{Mode: phase.Break, DurationSeconds: 60})

	tm.press("C")
	assert.Contains(t, tm.View(), "Delete every log?")
	tm.press("y")

	assert.Empty(t, tm.store.Load(ctx))
	assert.Equal(t, "All logs cleared.", tm.Message)
}

func TestLogViewListsTodaysSessions(t *testing.T) {
	tm := newTestModel(t, "1", "1")

	tm.press("l")
	assert.Contains(t, tm.View(), "Nothing logged yet today.")
	tm.press("esc")

	tm.press("space")
	tm.tick(60)
	tm.press("enter", "l")

	require.True(t, tm.ShowLogView)
	require.Len(t, tm.TodayLogs, 1)
	view := tm.View()
	assert.Contains(t, view, "Sessions 2024-05-01")
	assert.Contains(t, view, "01:00")

	tm.press("down", "down")
	assert.Zero(t, tm.LogViewScroll)

	tm.press("q")
	assert.False(t, tm.ShowLogView)
}

func TestWallClockTickRollsDayOver(t *testing.T) {
	ctx := context.Background()
	tm := newTestModel(t, "25", "5")
	tm.store.Append(ctx, "2024-05-02", timelog.Record{Mode: phase.Focus, DurationSeconds: 600})
	tm.clock.Set(time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC))

	tm.Update(MsgTick{})
	assert.Equal(t, "2024-05-01", tm.Stats.Day())
	assert.Contains(t, tm.View(), "23:59:59")

	tm.clock.Advance(time.Second)
	tm.Update(MsgTick{})
	assert.Equal(t, "2024-05-02", tm.Stats.Day())
	assert.Equal(t, 10, tm.Stats.Summary().FocusMinutes())
}

func TestQuitKeys(t *testing.T) {
	tm := newTestModel(t, "25", "5")

	_, cmd := tm.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = tm.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestFormatSeconds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "25:00", formatSeconds(1500))
	assert.Equal(t, "00:09", formatSeconds(9))
	assert.Equal(t, "60:05", formatSeconds(3605))
	assert.Equal(t, "120:00", formatSeconds(7200))
	assert.Equal(t, "00:00", formatSeconds(-3))
}
