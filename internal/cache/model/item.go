// Package model holds the cached item and its lifecycle rules.
// Items are not safe for concurrent use; the owning store serializes access.
package model

import "time"

// Never is the expiry sentinel of an item without TTL.
const Never int64 = 0

type Item[V any] struct {
	key        string
	value      V
	created    int64 // UnixNano, immutable
	lastAccess int64 // UnixNano of the last successful read (or creation)
	expiry     int64 // UnixNano or Never
	priority   int
	seq        uint64 // insertion order inside the store
	tick       uint64 // logical access order inside the store
}

// NewItem builds a fresh item. The expiry is computed once from ttl: ttl <= 0 never expires.
func NewItem[V any](key string, value V, now time.Time, ttl time.Duration, priority int, seq uint64) *Item[V] {
	nowNano := now.UnixNano()
	item := &Item[V]{
		key:        key,
		value:      value,
		created:    nowNano,
		lastAccess: nowNano,
		expiry:     Never,
		priority:   priority,
		seq:        seq,
		tick:       seq,
	}
	if ttl > 0 {
		item.expiry = nowNano + ttl.Nanoseconds()
	}
	return item
}

// IsExpired reports whether the item's lifetime is over at now.
// An item set with TTL T is alive strictly before created+T.
func (i *Item[V]) IsExpired(now time.Time) bool {
	return i.expiry != Never && now.UnixNano() >= i.expiry
}

// Touch marks a successful read.
func (i *Item[V]) Touch(now time.Time, tick uint64) {
	i.lastAccess = now.UnixNano()
	i.tick = tick
}

func (i *Item[V]) Key() string       { return i.key }
func (i *Item[V]) Value() V          { return i.value }
func (i *Item[V]) Created() int64    { return i.created }
func (i *Item[V]) LastAccess() int64 { return i.lastAccess }
func (i *Item[V]) Priority() int     { return i.priority }
func (i *Item[V]) Seq() uint64       { return i.seq }
func (i *Item[V]) Tick() uint64      { return i.tick }

// TTL returns the remaining lifetime at now, or 0 when the item never expires.
func (i *Item[V]) TTL(now time.Time) time.Duration {
	if i.expiry == Never {
		return 0
	}
	return time.Duration(i.expiry - now.UnixNano())
}
