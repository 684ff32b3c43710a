package audit

import "sync/atomic"

type auditCounters struct {
	written atomic.Int64
	dropped atomic.Int64 // buffer full or writer closed
}

func newAuditCounters() *auditCounters {
	return &auditCounters{
		written: atomic.Int64{},
		dropped: atomic.Int64{},
	}
}

func (c *auditCounters) snapshot() (written, dropped int64) {
	return c.written.Load(), c.dropped.Load()
}
