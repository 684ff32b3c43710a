package evictor

import "sync/atomic"

type evictorCounters struct {
	calls     atomic.Int64 // victim selections requested
	victims   atomic.Int64 // victims actually chosen
	fallbacks atomic.Int64 // unknown policies degraded to lru
}

func (c *evictorCounters) snapshot() (calls, victims, fallbacks int64) {
	return c.calls.Load(), c.victims.Load(), c.fallbacks.Load()
}

func newEvictorCounters() *evictorCounters {
	return &evictorCounters{
		calls:     atomic.Int64{},
		victims:   atomic.Int64{},
		fallbacks: atomic.Int64{},
	}
}
