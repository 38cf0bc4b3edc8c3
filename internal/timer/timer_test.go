package timer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerFiresUntilStopped(t *testing.T) {
	t.Parallel()

	var fired atomic.Int32
	tm := New(5*time.Millisecond, func() { fired.Add(1) }, nil)
	tm.Start()
	assert.True(t, tm.Running())

	require.Eventually(t, func() bool { return fired.Load() >= 3 }, time.Second, time.Millisecond)

	tm.Stop()
	assert.False(t, tm.Running())
	stoppedAt := fired.Load()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, fired.Load(), stoppedAt+1)
	assert.Equal(t, int(fired.Load()), tm.Ticks())
}

func TestTimerStopIsIdempotent(t *testing.T) {
	t.Parallel()

	tm := New(time.Hour, func() {}, nil)
	assert.NotPanics(t, func() {
		tm.Stop()
		tm.Start()
		tm.Stop()
		tm.Stop()
	})
	assert.False(t, tm.Running())
}

func TestTimerDoubleStartRunsOneLoop(t *testing.T) {
	t.Parallel()

	var fired atomic.Int32
	tm := New(10*time.Millisecond, func() { fired.Add(1) }, nil)
	tm.Start()
	tm.Start()
	defer tm.Stop()

	time.Sleep(55 * time.Millisecond)
	// one loop ticks about five times in 55ms; two loops would double it
	assert.LessOrEqual(t, fired.Load(), int32(6))
}

func TestTimerTickAfterStopIsDropped(t *testing.T) {
	t.Parallel()

	queued := make(chan func(), 16)
	var fired int
	tm := New(2*time.Millisecond, func() { fired++ }, func(fn func()) { queued <- fn })
	tm.Start()

	var pending func()
	select {
	case pending = <-queued:
	case <-time.After(time.Second):
		t.Fatal("no tick dispatched")
	}
	tm.Stop()
	pending()

	assert.Equal(t, 0, fired)
	assert.Equal(t, 0, tm.Ticks())
}

func TestTickerSchedulesRunningTask(t *testing.T) {
	t.Parallel()

	done := make(chan struct{}, 1)
	task := Ticker{}.Every(time.Millisecond, func() {
		select {
		case done <- struct{}{}:
		default:
		}
	})
	defer task.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never fired")
	}
}
