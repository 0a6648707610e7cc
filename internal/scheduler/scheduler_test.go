package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock drives tick() deterministically instead of sleeping.
type fakeClock struct{ t time.Time }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestScheduler() (*Scheduler, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_000_000, 0)}
	s := New()
	s.now = func() time.Time { return clock.t }
	return s, clock
}

func TestPeriodicTaskRunsOnInterval(t *testing.T) {
	s, clock := newTestScheduler()

	runs := 0
	s.Every("ping", 10*time.Second, func() { runs++ })

	s.tick() // nothing due yet
	require.Equal(t, 0, runs)

	clock.advance(10 * time.Second)
	s.tick()
	require.Equal(t, 1, runs)

	clock.advance(5 * time.Second)
	s.tick() // only halfway to the next run
	require.Equal(t, 1, runs)

	clock.advance(5 * time.Second)
	s.tick()
	require.Equal(t, 2, runs)
}

func TestShutdownWarnsThenExecutes(t *testing.T) {
	s, clock := newTestScheduler()

	var warnings []time.Duration
	executed := false
	s.OnWarn = func(remaining time.Duration, kind ShutdownKind) {
		require.Equal(t, KindShutdown, kind)
		warnings = append(warnings, remaining)
	}
	s.OnExecute = func(kind ShutdownKind) {
		require.Equal(t, KindShutdown, kind)
		executed = true
	}

	s.ScheduleShutdown(3*time.Minute, KindShutdown)

	for i := 0; i < 3; i++ {
		clock.advance(time.Minute)
		s.tick()
	}

	require.True(t, executed)
	require.Len(t, warnings, 2) // warned at T-2m and T-1m; the third tick executed
	require.Equal(t, 2*time.Minute, warnings[0])
	require.Equal(t, time.Minute, warnings[1])

	_, _, armed := s.ShutdownPending()
	require.False(t, armed, "scheduler must disarm after executing")
}

func TestRestartKindPropagates(t *testing.T) {
	s, clock := newTestScheduler()

	var got ShutdownKind
	s.OnExecute = func(kind ShutdownKind) { got = kind }

	s.ScheduleShutdown(time.Second, KindRestart)
	clock.advance(2 * time.Second)
	s.tick()

	require.Equal(t, KindRestart, got)
}

func TestCancelShutdown(t *testing.T) {
	s, clock := newTestScheduler()

	executed := false
	s.OnExecute = func(ShutdownKind) { executed = true }

	s.ScheduleShutdown(time.Minute, KindShutdown)
	require.True(t, s.CancelShutdown())
	require.False(t, s.CancelShutdown()) // second cancel finds nothing armed

	clock.advance(2 * time.Minute)
	s.tick()
	require.False(t, executed)
}

func TestRescheduleReplacesArmedShutdown(t *testing.T) {
	s, clock := newTestScheduler()

	var got ShutdownKind
	s.OnExecute = func(kind ShutdownKind) { got = kind }

	s.ScheduleShutdown(time.Minute, KindShutdown)
	s.ScheduleShutdown(30*time.Second, KindRestart)

	clock.advance(45 * time.Second)
	s.tick()

	require.Equal(t, KindRestart, got)
}
