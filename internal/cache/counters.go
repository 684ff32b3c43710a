package cache

import "sync/atomic"

type counters struct {
	hits        atomic.Int64
	misses      atomic.Int64
	sets        atomic.Int64
	deletes     atomic.Int64
	evictions   atomic.Int64 // capacity evictions plus expired removals (lazy and swept)
	lastCleanup atomic.Int64 // UnixNano of the last sweep, 0 if none
}

func newCounters() *counters {
	return &counters{
		hits:        atomic.Int64{},
		misses:      atomic.Int64{},
		sets:        atomic.Int64{},
		deletes:     atomic.Int64{},
		evictions:   atomic.Int64{},
		lastCleanup: atomic.Int64{},
	}
}

func (c *counters) snapshot() (hits, misses, sets, deletes, evictions int64) {
	return c.hits.Load(), c.misses.Load(), c.sets.Load(), c.deletes.Load(), c.evictions.Load()
}

func (c *counters) reset() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
	c.deletes.Store(0)
	c.evictions.Store(0)
	c.lastCleanup.Store(0)
}
