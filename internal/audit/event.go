// Package audit carries per-operation events of caches with logging enabled
// to an external sink. Recording never blocks and never fails the cache operation.
package audit

import "time"

type Op string

const (
	OpSet    Op = "set"
	OpDelete Op = "delete"
	OpEvict  Op = "evict"
	OpExpire Op = "expire"
	OpClear  Op = "clear"
)

type Event struct {
	ID    string
	Cache string
	Key   string
	Op    Op
	TTL   time.Duration // zero when not applicable or never-expiring
	At    time.Time
}

// Recorder accepts audit events.
type Recorder interface {
	Record(e Event)
}

// Metered is implemented by recorders that count their output.
type Metered interface {
	Metrics() (written, dropped int64)
}

// NoOp discards every event.
type NoOp struct{}

func (NoOp) Record(Event) {}
