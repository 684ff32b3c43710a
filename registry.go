package cachemgr

import (
	"context"
	"errors"
	"github.com/Borislavv/go-ash-cachemgr/config"
	"github.com/Borislavv/go-ash-cachemgr/internal/audit"
	"github.com/Borislavv/go-ash-cachemgr/internal/cache"
	"github.com/Borislavv/go-ash-cachemgr/internal/evictor"
	"github.com/Borislavv/go-ash-cachemgr/internal/lifetimer"
	"github.com/Borislavv/go-ash-cachemgr/internal/telemetry"
	"github.com/benbjohnson/clock"
	"github.com/zeebo/xxh3"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

const (
	numShards = 16
	shardMask = numShards - 1

	auditFlushTimeout = 5 * time.Second
)

type (
	// Cache is a handle to one named store. Values are stored as is, without copying.
	Cache      = cache.Store[any]
	Stats      = cache.Stats
	ItemOption = cache.ItemOption
)

var (
	// WithItemTTL overrides the cache TTL for one Set call; ttl <= 0 never expires.
	WithItemTTL = cache.WithTTL
	// WithPriority sets the item priority used by the priority eviction policy.
	WithPriority = cache.WithPriority
)

// GlobalStats aggregates all registered caches and the background workers serving them.
type GlobalStats struct {
	Caches    int     `json:"caches"`
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Sets      int64   `json:"sets"`
	Deletes   int64   `json:"deletes"`
	Evictions int64   `json:"evictions"`
	HitRate   float64 `json:"hit_rate"`

	// Evictor counters are process-wide: every cache shares one evictor.
	EvictorCalls    int64 `json:"evictor_calls"`
	EvictorVictims  int64 `json:"evictor_victims"`
	PolicyFallbacks int64 `json:"policy_fallbacks"`

	// Sweeps and Swept cover the cleanup schedulers of registered caches only.
	Sweeps int64 `json:"sweeps"`
	Swept  int64 `json:"swept"`

	// Audit counters stay zero for a recorder that does not count its output.
	AuditWritten int64 `json:"audit_written"`
	AuditDropped int64 `json:"audit_dropped"`

	PerCache map[string]Stats `json:"per_cache"`
}

type entry struct {
	cache     *Cache
	lifetimer lifetimer.Lifetimer
}

type shard struct {
	sync.RWMutex
	entries map[string]*entry
}

// Registry maps cache names to caches. It is safe for concurrent use.
type Registry struct {
	ctx       context.Context
	cancel    context.CancelFunc
	logger    *slog.Logger
	clock     clock.Clock
	policies  *config.MemoryProvider
	provider  evictor.Provider
	evictor   *evictor.PolicyEvictor
	recorder  audit.Recorder
	closers   []func(ctx context.Context) error
	telemetry telemetry.Logger
	closed    atomic.Bool

	defaultsMu sync.RWMutex
	defaults   config.Options

	shards [numShards]*shard
}

func New(ctx context.Context, cfg *config.Manager, logger *slog.Logger, opts ...Option) *Registry {
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.AdjustConfig()

	ctx, cancel := context.WithCancel(ctx)
	r := &Registry{
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger,
		clock:    clock.New(),
		policies: config.NewMemoryProvider(map[string]string{config.PolicyKey: cfg.Eviction.Policy}),
		defaults: cfg.Defaults,
	}
	r.provider = r.policies
	for id := range r.shards {
		r.shards[id] = &shard{entries: make(map[string]*entry)}
	}
	for _, opt := range opts {
		opt(r)
	}

	r.evictor = evictor.New(r.provider, logger)
	if r.recorder == nil {
		r.recorder = r.openAudit(cfg.Audit)
	}
	r.telemetry = telemetry.New(ctx, cfg.Telemetry, r.clock, logger, r)

	return r
}

// CreateCache returns the cache registered under name, creating it from the current
// defaults overlaid with opts when absent. Options of an already registered name are
// ignored. An empty name yields nil.
func (r *Registry) CreateCache(name string, opts ...CacheOption) *Cache {
	if name == "" {
		r.logger.Error("cache name must not be empty")
		return nil
	}
	if r.closed.Load() {
		r.logger.Error("create cache on closed registry", "cache", name)
		return nil
	}

	sh := r.shard(name)
	sh.Lock()
	defer sh.Unlock()

	if e, found := sh.entries[name]; found {
		if len(opts) > 0 {
			r.logger.Debug("cache already exists, options ignored", "cache", name)
		}
		return e.cache
	}

	o := r.Defaults()
	for _, opt := range opts {
		opt(&o)
	}

	c := cache.New[any](name, o, r.clock, r.evictor, r.recorder, r.logger)
	sh.entries[name] = &entry{
		cache:     c,
		lifetimer: lifetimer.New(r.ctx, name, o, r.clock, r.logger, c),
	}

	r.logger.Info("cache created",
		"cache", name,
		"max_items", o.MaxItems,
		"ttl", o.TTL.String(),
		"check_interval", o.CheckInterval.String(),
		"logging", o.EnableLogging,
	)
	return c
}

func (r *Registry) GetCache(name string) (*Cache, bool) {
	sh := r.shard(name)
	sh.RLock()
	defer sh.RUnlock()

	e, found := sh.entries[name]
	if !found {
		return nil, false
	}
	return e.cache, true
}

// GetAllCaches returns the registered names in lexical order.
func (r *Registry) GetAllCaches() []string {
	var names []string
	r.walk(func(name string, _ *entry) {
		names = append(names, name)
	})
	slices.Sort(names)
	return names
}

// DestroyCache stops the cleanup scheduler, discards all items and unregisters the name.
// Handles obtained before stay safe to use and do nothing.
func (r *Registry) DestroyCache(name string) bool {
	sh := r.shard(name)
	sh.Lock()
	e, found := sh.entries[name]
	if found {
		delete(sh.entries, name)
	}
	sh.Unlock()

	if !found {
		return false
	}

	_ = e.lifetimer.Close()
	e.cache.Destroy()

	r.logger.Info("cache destroyed", "cache", name)
	return true
}

// ConfigureCacheDefaults overlays the non-zero fields of defaults onto the options used by
// future CreateCache calls. Existing caches are not affected.
// A negative TTL makes future caches never expire by default.
func (r *Registry) ConfigureCacheDefaults(defaults config.Options) {
	r.defaultsMu.Lock()
	r.defaults = r.defaults.Merge(defaults)
	r.defaultsMu.Unlock()
}

func (r *Registry) Defaults() config.Options {
	r.defaultsMu.RLock()
	defer r.defaultsMu.RUnlock()
	return r.defaults
}

// SetEvictionPolicy changes the global policy applied by the next eviction of any cache.
// It reports false when an injected provider cannot be written to.
func (r *Registry) SetEvictionPolicy(policy string) bool {
	setter, ok := r.provider.(interface{ Set(key, value string) })
	if !ok {
		r.logger.Warn("eviction policy provider is read-only", "policy", policy)
		return false
	}
	if _, known := evictor.ParsePolicy(policy); !known {
		r.logger.Warn("unknown eviction policy, evictions will use lru", "policy", policy)
	}
	setter.Set(config.PolicyKey, policy)
	return true
}

// EvictionPolicy returns the policy the next eviction will apply.
func (r *Registry) EvictionPolicy() string {
	return string(r.evictor.Policy())
}

func (r *Registry) GetGlobalStats() GlobalStats {
	gs := GlobalStats{PerCache: make(map[string]Stats)}
	r.walk(func(name string, e *entry) {
		st := e.cache.Stats()
		gs.PerCache[name] = st
		gs.Caches++
		gs.Hits += st.Hits
		gs.Misses += st.Misses
		gs.Sets += st.Sets
		gs.Deletes += st.Deletes
		gs.Evictions += st.Evictions

		sweeps, swept := e.lifetimer.LifetimerMetrics()
		gs.Sweeps += sweeps
		gs.Swept += swept
	})
	gs.HitRate = cache.HitRate(gs.Hits, gs.Misses)

	gs.EvictorCalls, gs.EvictorVictims, gs.PolicyFallbacks = r.evictor.Metrics()
	if m, ok := r.recorder.(audit.Metered); ok {
		gs.AuditWritten, gs.AuditDropped = m.Metrics()
	}
	return gs
}

// Totals implements telemetry.Source.
func (r *Registry) Totals() telemetry.Totals {
	gs := r.GetGlobalStats()
	return telemetry.Totals{
		Caches:          gs.Caches,
		Hits:            gs.Hits,
		Misses:          gs.Misses,
		Sets:            gs.Sets,
		Deletes:         gs.Deletes,
		Evictions:       gs.Evictions,
		EvictorCalls:    gs.EvictorCalls,
		EvictorVictims:  gs.EvictorVictims,
		PolicyFallbacks: gs.PolicyFallbacks,
		Sweeps:          gs.Sweeps,
		Swept:           gs.Swept,
		AuditWritten:    gs.AuditWritten,
		AuditDropped:    gs.AuditDropped,
	}
}

// ClearAllCaches empties every cache without unregistering any.
func (r *Registry) ClearAllCaches() {
	r.walk(func(_ string, e *entry) {
		e.cache.Clear()
	})
}

// ResetStats zeroes the counters of every cache. It is the only way counters go back.
func (r *Registry) ResetStats() {
	r.walk(func(_ string, e *entry) {
		e.cache.ResetStats()
	})
}

// Close destroys every cache, stops background workers and flushes the audit sink.
func (r *Registry) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}

	for _, name := range r.GetAllCaches() {
		r.DestroyCache(name)
	}
	_ = r.telemetry.Close()
	r.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), auditFlushTimeout)
	defer cancel()

	var errs []error
	for _, closeFn := range r.closers {
		if err := closeFn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// GetAs reads key from c and asserts the value to V, returning def on a miss,
// a nil handle or a value of another type.
func GetAs[V any](c *Cache, key string, def V) V {
	if c == nil {
		return def
	}
	if v, ok := c.Get(key, def).(V); ok {
		return v
	}
	return def
}

func (r *Registry) shard(name string) *shard {
	return r.shards[xxh3.HashString(name)&shardMask]
}

// walk calls fn for every registered cache outside of the shard locks.
func (r *Registry) walk(fn func(name string, e *entry)) {
	type named struct {
		name string
		e    *entry
	}
	var all []named
	for _, sh := range r.shards {
		sh.RLock()
		for name, e := range sh.entries {
			all = append(all, named{name: name, e: e})
		}
		sh.RUnlock()
	}
	for _, n := range all {
		fn(n.name, n.e)
	}
}

func (r *Registry) openAudit(cfg *config.AuditCfg) audit.Recorder {
	if !cfg.Enabled() {
		return audit.NoOp{}
	}

	out, closeOut, err := audit.OpenOutput(cfg.Output)
	if err != nil {
		r.logger.Error("audit sink disabled", "output", cfg.Output, "err", err)
		return audit.NoOp{}
	}

	w := audit.NewWriter(cfg, out, r.clock)
	r.closers = append(r.closers, w.Close, func(context.Context) error { return closeOut() })
	r.logger.Info("audit sink is running", "output", cfg.Output, "rate_per_sec", cfg.RatePerSec)
	return w
}
