package lifetimer

import (
	"context"
	"github.com/Borislavv/go-ash-cachemgr/config"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type sweeper struct {
	calls atomic.Int64
	per   int
}

func (s *sweeper) Sweep() int {
	s.calls.Add(1)
	return s.per
}

func sweepOpts(ttl, interval time.Duration) config.Options {
	return config.Options{MaxItems: 10, TTL: ttl, CheckInterval: interval}
}

// TestNew_Disabled returns a NoOpLifetimer unless both ttl and interval are positive.
func TestNew_Disabled(t *testing.T) {
	clk := clock.NewMock()
	target := &sweeper{}

	for _, o := range []config.Options{
		sweepOpts(0, time.Second),
		sweepOpts(time.Second, 0),
		sweepOpts(-time.Second, time.Second),
	} {
		lt := New(context.Background(), "c", o, clk, slog.Default(), target)
		require.IsType(t, &NoOpLifetimer{}, lt)
	}
}

// TestLifetimeWorker_SweepsEveryInterval verifies one sweep per elapsed interval.
func TestLifetimeWorker_SweepsEveryInterval(t *testing.T) {
	clk := clock.NewMock()
	target := &sweeper{per: 2}

	lt := New(context.Background(), "c", sweepOpts(time.Second, 100*time.Millisecond), clk, slog.Default(), target)
	defer func() { require.NoError(t, lt.Close()) }()

	clk.Add(50 * time.Millisecond)
	require.Equal(t, int64(0), target.calls.Load(), "no sweep before the interval")

	for i := 1; i <= 3; i++ {
		clk.Add(100 * time.Millisecond)
		want := int64(i)
		require.Eventually(t, func() bool { return target.calls.Load() == want }, time.Second, time.Millisecond)
	}

	require.Eventually(t, func() bool {
		sweeps, removed := lt.LifetimerMetrics()
		return sweeps == 3 && removed == 6
	}, time.Second, time.Millisecond)
}

// TestLifetimeWorker_Close stops sweeping and is idempotent.
func TestLifetimeWorker_Close(t *testing.T) {
	clk := clock.NewMock()
	target := &sweeper{}

	lt := New(context.Background(), "c", sweepOpts(time.Second, time.Second), clk, slog.Default(), target)
	require.NoError(t, lt.Close())
	require.NoError(t, lt.Close())

	clk.Add(10 * time.Second)
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, int64(0), target.calls.Load())
}

// TestLifetimeWorker_ParentContext stops the worker when the parent context is canceled.
func TestLifetimeWorker_ParentContext(t *testing.T) {
	clk := clock.NewMock()
	target := &sweeper{}

	ctx, cancel := context.WithCancel(context.Background())
	lt := New(ctx, "c", sweepOpts(time.Second, time.Second), clk, slog.Default(), target)
	cancel()

	w := lt.(*LifetimeWorker)
	require.Eventually(t, func() bool {
		select {
		case <-w.done:
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}
