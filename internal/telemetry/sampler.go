package telemetry

// Totals are cumulative registry counters. Caches is a gauge.
type Totals struct {
	Caches    int
	Hits      int64
	Misses    int64
	Sets      int64
	Deletes   int64
	Evictions int64

	EvictorCalls    int64
	EvictorVictims  int64
	PolicyFallbacks int64

	Sweeps int64
	Swept  int64

	AuditWritten int64
	AuditDropped int64
}

// Source exposes cumulative registry counters.
type Source interface {
	Totals() Totals
}

type sampler struct {
	source Source
}

func newSampler(s Source) sampler {
	return sampler{source: s}
}

// snapshot holds cumulative counters (monotonic until a registry reset or a destroyed cache).
type snapshot struct {
	caches          int
	hits            uint64
	misses          uint64
	sets            uint64
	deletes         uint64
	evictions       uint64
	evictorCalls    uint64
	evictorVictims  uint64
	policyFallbacks uint64
	sweeps          uint64
	swept           uint64
	auditWritten    uint64
	auditDropped    uint64
}

func (s sampler) snapshot() snapshot {
	t := s.source.Totals()
	return snapshot{
		caches:          t.Caches,
		hits:            unsigned(t.Hits),
		misses:          unsigned(t.Misses),
		sets:            unsigned(t.Sets),
		deletes:         unsigned(t.Deletes),
		evictions:       unsigned(t.Evictions),
		evictorCalls:    unsigned(t.EvictorCalls),
		evictorVictims:  unsigned(t.EvictorVictims),
		policyFallbacks: unsigned(t.PolicyFallbacks),
		sweeps:          unsigned(t.Sweeps),
		swept:           unsigned(t.Swept),
		auditWritten:    unsigned(t.AuditWritten),
		auditDropped:    unsigned(t.AuditDropped),
	}
}

func unsigned(v int64) uint64 {
	return uint64(max(v, 0))
}

// deltaSnapshot converts cumulative snapshots to per-interval deltas.
// If counters reset (cur < prev), it treats cur as the delta.
// The caches gauge is passed through as is.
func deltaSnapshot(prev, cur snapshot) snapshot {
	return snapshot{
		caches:          cur.caches,
		hits:            delta(prev.hits, cur.hits),
		misses:          delta(prev.misses, cur.misses),
		sets:            delta(prev.sets, cur.sets),
		deletes:         delta(prev.deletes, cur.deletes),
		evictions:       delta(prev.evictions, cur.evictions),
		evictorCalls:    delta(prev.evictorCalls, cur.evictorCalls),
		evictorVictims:  delta(prev.evictorVictims, cur.evictorVictims),
		policyFallbacks: delta(prev.policyFallbacks, cur.policyFallbacks),
		sweeps:          delta(prev.sweeps, cur.sweeps),
		swept:           delta(prev.swept, cur.swept),
		auditWritten:    delta(prev.auditWritten, cur.auditWritten),
		auditDropped:    delta(prev.auditDropped, cur.auditDropped),
	}
}

func delta(prev, cur uint64) uint64 {
	if cur >= prev {
		return cur - prev
	}
	return cur
}

func hitRate(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		total = 1
	}
	return float64(hits) / float64(total)
}
