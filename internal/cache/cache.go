package cache

import (
	"github.com/Borislavv/go-ash-cachemgr/config"
	"github.com/Borislavv/go-ash-cachemgr/internal/audit"
	"github.com/Borislavv/go-ash-cachemgr/internal/cache/model"
	"github.com/Borislavv/go-ash-cachemgr/internal/evictor"
	"github.com/benbjohnson/clock"
	"iter"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Cacher is the per-cache API handed out by the registry.
type Cacher[V any] interface {
	Get(key string, def V) V
	Set(key string, value V, opts ...ItemOption)
	Has(key string) bool
	Delete(key string) bool
	Clear()
	Keys() []string
	Size() int
	Stats() Stats
}

var _ Cacher[any] = (*Store[any])(nil)

// Store is one named cache. A single mutex guards items and state.
//
// After Destroy the store is inert: Get returns the default, Set drops the write,
// Has and Delete report false, Size is zero and no counter moves.
type Store[V any] struct {
	mu        sync.Mutex
	name      string
	opts      config.Options
	clock     clock.Clock
	evictor   evictor.Evictor
	recorder  audit.Recorder
	logger    *slog.Logger
	items     map[string]*model.Item[V]
	tick      uint64 // logical clock for insertion and access order
	destroyed bool
	counters  *counters
}

// New builds an empty store. The recorder is used only when opts.EnableLogging is set.
func New[V any](
	name string,
	opts config.Options,
	clk clock.Clock,
	ev evictor.Evictor,
	recorder audit.Recorder,
	logger *slog.Logger,
) *Store[V] {
	if !opts.EnableLogging || recorder == nil {
		recorder = audit.NoOp{}
	}
	return &Store[V]{
		name:     name,
		opts:     opts,
		clock:    clk,
		evictor:  ev,
		recorder: recorder,
		logger:   logger,
		items:    make(map[string]*model.Item[V]),
		counters: newCounters(),
	}
}

func (s *Store[V]) Name() string            { return s.name }
func (s *Store[V]) Options() config.Options { return s.opts }

func (s *Store[V]) Get(key string, def V) V {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return def
	}

	item, found := s.items[key]
	if !found {
		s.counters.misses.Add(1)
		return def
	}

	now := s.clock.Now()
	if item.IsExpired(now) {
		s.expireLocked(item)
		return def
	}

	s.counters.hits.Add(1)
	s.tick++
	item.Touch(now, s.tick)
	return item.Value()
}

func (s *Store[V]) Set(key string, value V, opts ...ItemOption) {
	o := itemOptions{ttl: s.opts.TTL}
	for _, opt := range opts {
		opt(&o)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		s.logger.Debug("set on destroyed cache dropped", "cache", s.name, "key", key)
		return
	}

	if _, exists := s.items[key]; !exists && s.opts.MaxItems > 0 && len(s.items) >= s.opts.MaxItems {
		s.evictLocked()
	}

	s.tick++
	s.items[key] = model.NewItem(key, value, s.clock.Now(), o.ttl, o.priority, s.tick)
	s.counters.sets.Add(1)

	var ttl time.Duration
	if o.ttl > 0 {
		ttl = o.ttl
	}
	s.recorder.Record(audit.Event{Cache: s.name, Key: key, Op: audit.OpSet, TTL: ttl})
}

// Has is Get without touching the item or counting a hit or miss.
// An expired item is still removed and counted as an eviction.
func (s *Store[V]) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return false
	}

	item, found := s.items[key]
	if !found {
		return false
	}
	if item.IsExpired(s.clock.Now()) {
		s.expireLocked(item)
		return false
	}
	return true
}

func (s *Store[V]) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return false
	}
	if _, found := s.items[key]; !found {
		return false
	}

	delete(s.items, key)
	s.counters.deletes.Add(1)
	s.recorder.Record(audit.Event{Cache: s.name, Key: key, Op: audit.OpDelete})
	return true
}

// Clear drops every item at once without touching deletes or evictions.
func (s *Store[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return
	}
	clear(s.items)
	s.recorder.Record(audit.Event{Cache: s.name, Op: audit.OpClear})
}

// Keys returns the stored keys in lexical order, expired-but-unswept ones included.
func (s *Store[V]) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *Store[V]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store[V]) Stats() Stats {
	hits, misses, sets, deletes, evictions := s.counters.snapshot()

	var lastCleanup time.Time
	if ts := s.counters.lastCleanup.Load(); ts != 0 {
		lastCleanup = time.Unix(0, ts)
	}

	return Stats{
		Name:        s.name,
		Hits:        hits,
		Misses:      misses,
		Sets:        sets,
		Deletes:     deletes,
		Evictions:   evictions,
		LastCleanup: lastCleanup,
		Size:        s.Size(),
		MaxSize:     s.opts.MaxItems,
		HitRate:     HitRate(hits, misses),
	}
}

// ResetStats zeroes every counter.
func (s *Store[V]) ResetStats() {
	s.counters.reset()
}

// Sweep removes every expired item in one locked pass and returns how many were removed.
func (s *Store[V]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return 0
	}

	now := s.clock.Now()
	removed := 0
	for _, item := range s.items {
		if item.IsExpired(now) {
			s.expireLocked(item)
			removed++
		}
	}
	s.counters.lastCleanup.Store(now.UnixNano())

	if removed > 0 {
		s.logger.Debug("expired items swept", "cache", s.name, "removed", removed, "left", len(s.items))
	}
	return removed
}

// Destroy discards all items and turns the store inert.
func (s *Store[V]) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.destroyed = true
	clear(s.items)
}

func (s *Store[V]) expireLocked(item *model.Item[V]) {
	delete(s.items, item.Key())
	s.counters.evictions.Add(1)
	s.recorder.Record(audit.Event{Cache: s.name, Key: item.Key(), Op: audit.OpExpire})
}

func (s *Store[V]) evictLocked() {
	key, ok := s.evictor.Victim(s.candidatesLocked())
	if !ok {
		return
	}
	ttl := s.items[key].TTL(s.clock.Now())
	delete(s.items, key)
	s.counters.evictions.Add(1)
	s.recorder.Record(audit.Event{Cache: s.name, Key: key, Op: audit.OpEvict, TTL: max(ttl, 0)})
}

func (s *Store[V]) candidatesLocked() iter.Seq[evictor.Candidate] {
	return func(yield func(evictor.Candidate) bool) {
		for _, item := range s.items {
			if !yield(item) {
				return
			}
		}
	}
}
