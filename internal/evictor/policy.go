package evictor

import "strings"

type Policy string

const (
	LRU      Policy = "lru"
	LFU      Policy = "lfu"
	FIFO     Policy = "fifo"
	Priority Policy = "priority"
)

// ParsePolicy normalizes a configured value. Unknown values degrade to LRU and ok is false.
func ParsePolicy(v string) (p Policy, ok bool) {
	switch p = Policy(strings.ToLower(strings.TrimSpace(v))); p {
	case LRU, LFU, FIFO, Priority:
		return p, true
	default:
		return LRU, false
	}
}

// Candidate is the view of a cached item the evictor ranks.
type Candidate interface {
	Key() string
	Created() int64
	LastAccess() int64
	Priority() int
	Seq() uint64
	Tick() uint64
}

// less reports whether a must be evicted before b under policy p.
// Ties are broken by the store's logical orders, so the choice never depends on map iteration.
func (p Policy) less(a, b Candidate) bool {
	switch p {
	case FIFO:
		if a.Created() != b.Created() {
			return a.Created() < b.Created()
		}
		return a.Seq() < b.Seq()
	case Priority:
		if a.Priority() != b.Priority() {
			return a.Priority() < b.Priority()
		}
		if a.Created() != b.Created() {
			return a.Created() < b.Created()
		}
		return a.Seq() < b.Seq()
	default:
		// LFU is approximated: no frequency is tracked, so it ranks exactly as LRU.
		if a.LastAccess() != b.LastAccess() {
			return a.LastAccess() < b.LastAccess()
		}
		return a.Tick() < b.Tick()
	}
}
