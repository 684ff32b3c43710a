package lifetimer

import "sync/atomic"

type lifetimerCounters struct {
	sweeps  atomic.Int64 // total sweeps
	removed atomic.Int64 // expired items removed by sweeps
}

func newLifetimerCounters() *lifetimerCounters {
	return &lifetimerCounters{
		sweeps:  atomic.Int64{},
		removed: atomic.Int64{},
	}
}

func (c *lifetimerCounters) snapshot() (sweeps, removed int64) {
	return c.sweeps.Load(), c.removed.Load()
}
