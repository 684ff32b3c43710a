package evictor

import (
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
)

// TestEvictorCounters_Snapshot verifies that evictor counters correctly track metrics.
func TestEvictorCounters_Snapshot(t *testing.T) {
	c := newEvictorCounters()

	// Initial snapshot should be zero
	calls, victims, fallbacks := c.snapshot()
	require.Equal(t, int64(0), calls)
	require.Equal(t, int64(0), victims)
	require.Equal(t, int64(0), fallbacks)

	c.calls.Add(100)
	c.victims.Add(99)
	c.fallbacks.Add(3)

	calls, victims, fallbacks = c.snapshot()
	require.Equal(t, int64(100), calls)
	require.Equal(t, int64(99), victims)
	require.Equal(t, int64(3), fallbacks)
}

// TestEvictorCounters_Concurrent verifies thread-safety.
func TestEvictorCounters_Concurrent(t *testing.T) {
	c := newEvictorCounters()

	const numGoroutines = 10
	const opsPerGoroutine = 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < opsPerGoroutine; j++ {
				c.calls.Add(1)
				c.victims.Add(1)
				c.fallbacks.Add(1)
			}
		}()
	}

	wg.Wait()

	calls, victims, fallbacks := c.snapshot()
	require.Equal(t, int64(numGoroutines*opsPerGoroutine), calls)
	require.Equal(t, int64(numGoroutines*opsPerGoroutine), victims)
	require.Equal(t, int64(numGoroutines*opsPerGoroutine), fallbacks)
}
