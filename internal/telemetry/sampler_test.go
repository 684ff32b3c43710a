package telemetry

import (
	"github.com/stretchr/testify/require"
	"testing"
)

// TestDeltaSnapshot computes per-interval deltas.
func TestDeltaSnapshot(t *testing.T) {
	prev := snapshot{caches: 1, hits: 10, misses: 5, sets: 20, deletes: 1, evictions: 2}
	cur := snapshot{caches: 3, hits: 15, misses: 5, sets: 30, deletes: 4, evictions: 2}

	d := deltaSnapshot(prev, cur)
	require.Equal(t, snapshot{caches: 3, hits: 5, misses: 0, sets: 10, deletes: 3, evictions: 0}, d)
}

// TestDeltaSnapshot_Reset treats a decreased counter as a reset.
func TestDeltaSnapshot_Reset(t *testing.T) {
	prev := snapshot{hits: 100}
	cur := snapshot{hits: 7}

	require.Equal(t, uint64(7), deltaSnapshot(prev, cur).hits)
}

// TestHitRate uses 1 as divisor for empty intervals.
func TestHitRate(t *testing.T) {
	require.Equal(t, float64(0), hitRate(0, 0))
	require.Equal(t, 0.75, hitRate(3, 1))
}

type fixedSource Totals

func (s fixedSource) Totals() Totals { return Totals(s) }

// TestSampler_Snapshot carries worker counters and clamps negative values.
func TestSampler_Snapshot(t *testing.T) {
	s := newSampler(fixedSource{
		Caches:          4,
		Hits:            -1,
		EvictorCalls:    7,
		EvictorVictims:  6,
		PolicyFallbacks: 2,
		Sweeps:          9,
		Swept:           30,
		AuditWritten:    11,
		AuditDropped:    3,
	})

	require.Equal(t, snapshot{
		caches:          4,
		evictorCalls:    7,
		evictorVictims:  6,
		policyFallbacks: 2,
		sweeps:          9,
		swept:           30,
		auditWritten:    11,
		auditDropped:    3,
	}, s.snapshot())
}
