package cache

import (
	"github.com/Borislavv/go-ash-cachemgr/config"
	"github.com/Borislavv/go-ash-cachemgr/internal/audit"
	"github.com/Borislavv/go-ash-cachemgr/internal/evictor"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type captured struct {
	mu     sync.Mutex
	events []audit.Event
}

func (c *captured) Record(e audit.Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
}

func (c *captured) ops() []audit.Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]audit.Op, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Op)
	}
	return out
}

type fixture struct {
	clock    *clock.Mock
	provider *config.MemoryProvider
	recorder *captured
}

func newFixture() *fixture {
	clk := clock.NewMock()
	clk.Set(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	return &fixture{
		clock:    clk,
		provider: config.NewMemoryProvider(map[string]string{config.PolicyKey: "lru"}),
		recorder: &captured{},
	}
}

func (f *fixture) store(opts config.Options) *Store[string] {
	return New[string]("test", opts, f.clock, evictor.New(f.provider, slog.Default()), f.recorder, slog.Default())
}

func opts(maxItems int, ttl time.Duration) config.Options {
	return config.Options{MaxItems: maxItems, TTL: ttl}
}

// TestStore_Get_Miss returns the default value and counts a miss.
func TestStore_Get_Miss(t *testing.T) {
	s := newFixture().store(opts(10, 0))

	require.Equal(t, "fallback", s.Get("absent", "fallback"))

	st := s.Stats()
	require.Equal(t, int64(0), st.Hits)
	require.Equal(t, int64(1), st.Misses)
	require.Equal(t, int64(0), st.Evictions)
}

// TestStore_SetGet_Hit returns the stored value and counts a hit.
func TestStore_SetGet_Hit(t *testing.T) {
	s := newFixture().store(opts(10, 0))

	s.Set("k", "v")
	require.Equal(t, "v", s.Get("k", ""))

	st := s.Stats()
	require.Equal(t, int64(1), st.Hits)
	require.Equal(t, int64(0), st.Misses)
	require.Equal(t, int64(1), st.Sets)
	require.Equal(t, 1, st.Size)
	require.Equal(t, 10, st.MaxSize)
}

// TestStore_Get_Expired removes the item, counts one eviction and returns the default.
func TestStore_Get_Expired(t *testing.T) {
	f := newFixture()
	s := f.store(opts(10, 10*time.Second))

	s.Set("k", "v")

	f.clock.Add(10*time.Second - time.Nanosecond)
	require.Equal(t, "v", s.Get("k", "def"), "alive strictly before created+ttl")

	f.clock.Add(time.Nanosecond)
	require.Equal(t, "def", s.Get("k", "def"), "expired at created+ttl")
	require.Equal(t, 0, s.Size())

	st := s.Stats()
	require.Equal(t, int64(1), st.Hits)
	require.Equal(t, int64(0), st.Misses, "expiry is not a miss")
	require.Equal(t, int64(1), st.Evictions)

	require.Equal(t, "def", s.Get("k", "def"))
	require.Equal(t, int64(1), s.Stats().Misses, "gone item is a plain miss")
}

// TestStore_Set_ItemTTLOverride verifies per-item TTL wins over the store default, including never-expire.
func TestStore_Set_ItemTTLOverride(t *testing.T) {
	f := newFixture()
	s := f.store(opts(10, time.Minute))

	s.Set("short", "v", WithTTL(time.Second))
	s.Set("forever", "v", WithTTL(0))
	s.Set("negative", "v", WithTTL(-time.Second))
	s.Set("default", "v")

	f.clock.Add(2 * time.Second)
	require.False(t, s.Has("short"))
	require.True(t, s.Has("default"))

	f.clock.Add(365 * 24 * time.Hour)
	require.False(t, s.Has("default"))
	require.Equal(t, "v", s.Get("forever", ""))
	require.Equal(t, "v", s.Get("negative", ""))
}

// TestStore_Set_StoreTTLZero_NeverExpires verifies a store without TTL keeps items indefinitely.
func TestStore_Set_StoreTTLZero_NeverExpires(t *testing.T) {
	f := newFixture()
	s := f.store(opts(10, 0))

	s.Set("k", "v")
	f.clock.Add(10 * 365 * 24 * time.Hour)
	require.Equal(t, "v", s.Get("k", ""))
}

// TestStore_Set_Overwrite resets the item and does not evict.
func TestStore_Set_Overwrite(t *testing.T) {
	f := newFixture()
	s := f.store(opts(2, 10*time.Second))

	s.Set("a", "1")
	s.Set("b", "1")
	f.clock.Add(8 * time.Second)
	s.Set("a", "2")

	f.clock.Add(5 * time.Second)
	require.False(t, s.Has("b"), "b expired with its original expiry")
	require.Equal(t, "2", s.Get("a", ""), "a got a fresh expiry on overwrite")

	st := s.Stats()
	require.Equal(t, int64(3), st.Sets)
	require.Equal(t, int64(1), st.Evictions, "only b's expiry counts")
}

// TestStore_Has_NoAccounting verifies Has neither counts hits/misses nor touches the item.
func TestStore_Has_NoAccounting(t *testing.T) {
	f := newFixture()
	s := f.store(opts(2, 0))

	s.Set("a", "1")
	s.Set("b", "2")
	require.True(t, s.Has("a"))
	require.False(t, s.Has("zzz"))

	st := s.Stats()
	require.Equal(t, int64(0), st.Hits)
	require.Equal(t, int64(0), st.Misses)

	// Has did not refresh "a", so it is still the LRU victim.
	s.Set("c", "3")
	require.False(t, s.Has("a"))
	require.True(t, s.Has("b"))
}

// TestStore_Has_Expired lazily removes and counts an eviction.
func TestStore_Has_Expired(t *testing.T) {
	f := newFixture()
	s := f.store(opts(10, time.Second))

	s.Set("k", "v")
	f.clock.Add(time.Second)

	require.False(t, s.Has("k"))
	require.Equal(t, 0, s.Size())
	require.Equal(t, int64(1), s.Stats().Evictions)
}

// TestStore_Delete removes present keys only.
func TestStore_Delete(t *testing.T) {
	s := newFixture().store(opts(10, 0))

	s.Set("k", "v")
	require.True(t, s.Delete("k"))
	require.False(t, s.Delete("k"))
	require.False(t, s.Delete("never-set"))

	require.Equal(t, int64(1), s.Stats().Deletes)
	require.Equal(t, 0, s.Size())
}

// TestStore_Clear empties the store without touching deletes or evictions.
func TestStore_Clear(t *testing.T) {
	s := newFixture().store(opts(10, 0))

	for _, k := range []string{"a", "b", "c"} {
		s.Set(k, k)
	}
	s.Clear()

	require.Equal(t, 0, s.Size())
	require.Empty(t, s.Keys())
	st := s.Stats()
	require.Equal(t, int64(0), st.Deletes)
	require.Equal(t, int64(0), st.Evictions)
	require.Equal(t, int64(3), st.Sets)
}

// TestStore_Keys is sorted and has no statistics impact.
func TestStore_Keys(t *testing.T) {
	s := newFixture().store(opts(10, 0))

	s.Set("b", "")
	s.Set("a", "")
	s.Set("c", "")

	require.Equal(t, []string{"a", "b", "c"}, s.Keys())
	require.Equal(t, 3, s.Size())
	st := s.Stats()
	require.Equal(t, int64(0), st.Hits+st.Misses)
}

// TestStore_CapacityInvariant holds after every Set.
func TestStore_CapacityInvariant(t *testing.T) {
	for _, policy := range []string{"lru", "lfu", "fifo", "priority", "unknown"} {
		t.Run(policy, func(t *testing.T) {
			f := newFixture()
			f.provider.Set(config.PolicyKey, policy)
			s := f.store(opts(5, 0))

			for i := 0; i < 100; i++ {
				key := string(rune('a' + i%26))
				s.Set(key, key, WithPriority(i%7))
				if i%3 == 0 {
					s.Get(string(rune('a'+(i/2)%26)), "")
				}
				require.LessOrEqual(t, s.Size(), 5)
			}
		})
	}
}

// TestStore_Eviction_FIFO evicts the first inserted item.
func TestStore_Eviction_FIFO(t *testing.T) {
	f := newFixture()
	f.provider.Set(config.PolicyKey, "fifo")
	s := f.store(opts(2, 0))

	s.Set("a", "a")
	s.Set("b", "b")
	s.Get("a", "")
	s.Set("c", "c")

	require.False(t, s.Has("a"))
	require.True(t, s.Has("b"))
	require.True(t, s.Has("c"))
	require.Equal(t, int64(1), s.Stats().Evictions)
}

// TestStore_Eviction_LRU evicts the least recently read item even on a frozen clock.
func TestStore_Eviction_LRU(t *testing.T) {
	f := newFixture()
	s := f.store(opts(2, 0))

	s.Set("a", "a")
	s.Set("b", "b")
	s.Get("a", "")
	s.Set("c", "c")

	require.True(t, s.Has("a"))
	require.False(t, s.Has("b"))
	require.True(t, s.Has("c"))
}

// TestStore_Eviction_LFU_DegradesToLRU documents the approximation.
func TestStore_Eviction_LFU_DegradesToLRU(t *testing.T) {
	f := newFixture()
	f.provider.Set(config.PolicyKey, "lfu")
	s := f.store(opts(2, 0))

	s.Set("a", "a")
	s.Set("b", "b")
	// "b" is read many times, but only the last access matters.
	for i := 0; i < 10; i++ {
		f.clock.Add(time.Millisecond)
		s.Get("b", "")
	}
	f.clock.Add(time.Millisecond)
	s.Get("a", "")
	s.Set("c", "c")

	require.True(t, s.Has("a"))
	require.False(t, s.Has("b"), "a frequency-aware policy would have kept b")
}

// TestStore_Eviction_Priority evicts the lowest priority, oldest first on ties.
func TestStore_Eviction_Priority(t *testing.T) {
	f := newFixture()
	f.provider.Set(config.PolicyKey, "priority")
	s := f.store(opts(3, 0))

	s.Set("high", "", WithPriority(10))
	s.Set("low1", "", WithPriority(1))
	s.Set("low2", "", WithPriority(1))

	s.Set("new", "", WithPriority(5))
	require.False(t, s.Has("low1"))
	require.True(t, s.Has("low2"))

	s.Set("newer", "")
	require.False(t, s.Has("low2"))
	require.True(t, s.Has("newer"), "the incoming item is never its own victim")
	require.True(t, s.Has("high"))
	require.Equal(t, 3, s.Size())
}

// TestStore_Eviction_PolicyReadPerEviction verifies a global policy change applies to the next eviction.
func TestStore_Eviction_PolicyReadPerEviction(t *testing.T) {
	f := newFixture()
	s := f.store(opts(2, 0))

	s.Set("a", "a")
	s.Set("b", "b")
	s.Get("a", "")

	f.provider.Set(config.PolicyKey, "fifo")
	s.Set("c", "c")

	require.False(t, s.Has("a"), "fifo in force at eviction time")
	require.True(t, s.Has("b"))
}

// TestStore_Stats_HitRate follows hits / (hits + misses) with a divisor of 1 on a fresh store.
func TestStore_Stats_HitRate(t *testing.T) {
	s := newFixture().store(opts(10, 0))
	require.Equal(t, float64(0), s.Stats().HitRate)

	s.Set("k", "v")
	s.Get("k", "")
	s.Get("k", "")
	s.Get("k", "")
	s.Get("missing", "")

	require.Equal(t, 0.75, s.Stats().HitRate)
}

// TestStore_Sweep removes all expired items in one pass and records lastCleanup.
func TestStore_Sweep(t *testing.T) {
	f := newFixture()
	s := f.store(opts(10, time.Second))

	require.True(t, s.Stats().LastCleanup.IsZero())

	s.Set("a", "")
	s.Set("b", "")
	s.Set("c", "", WithTTL(time.Hour))
	f.clock.Add(2 * time.Second)

	require.Equal(t, 2, s.Sweep())
	require.Equal(t, []string{"c"}, s.Keys())

	st := s.Stats()
	require.Equal(t, int64(2), st.Evictions)
	require.Equal(t, f.clock.Now().UnixNano(), st.LastCleanup.UnixNano())
}

// TestStore_Destroy turns the handle into a no-op.
func TestStore_Destroy(t *testing.T) {
	s := newFixture().store(opts(10, 0))

	s.Set("k", "v")
	s.Get("k", "")
	before := s.Stats()

	s.Destroy()

	require.Equal(t, 0, s.Size())
	require.Equal(t, "def", s.Get("k", "def"))
	s.Set("k", "v")
	require.False(t, s.Has("k"))
	require.False(t, s.Delete("k"))
	require.Equal(t, 0, s.Sweep())
	s.Clear()

	after := s.Stats()
	require.Equal(t, before.Hits, after.Hits)
	require.Equal(t, before.Misses, after.Misses)
	require.Equal(t, before.Sets, after.Sets)
	require.Equal(t, 0, after.Size)
}

// TestStore_ResetStats zeroes counters but keeps items.
func TestStore_ResetStats(t *testing.T) {
	f := newFixture()
	s := f.store(opts(10, time.Second))

	s.Set("k", "v")
	s.Get("k", "")
	s.Get("x", "")
	s.Sweep()
	s.ResetStats()

	st := s.Stats()
	require.Equal(t, int64(0), st.Hits+st.Misses+st.Sets+st.Deletes+st.Evictions)
	require.True(t, st.LastCleanup.IsZero())
	require.Equal(t, 1, st.Size)
}

// TestStore_Audit_OnlyWhenEnabled verifies mutating operations are recorded only with EnableLogging.
func TestStore_Audit_OnlyWhenEnabled(t *testing.T) {
	f := newFixture()
	silent := f.store(opts(10, 0))
	silent.Set("k", "v")
	silent.Delete("k")
	require.Empty(t, f.recorder.ops())

	o := opts(1, time.Second)
	o.EnableLogging = true
	loud := f.store(o)

	loud.Set("a", "v")
	loud.Get("a", "")
	loud.Set("b", "v", WithTTL(0))
	loud.Delete("b")
	loud.Set("c", "v")
	f.clock.Add(time.Second)
	loud.Has("c")
	loud.Clear()

	require.Equal(t, []audit.Op{
		audit.OpSet,
		audit.OpEvict, audit.OpSet,
		audit.OpDelete,
		audit.OpSet,
		audit.OpExpire,
		audit.OpClear,
	}, f.recorder.ops())

	f.recorder.mu.Lock()
	defer f.recorder.mu.Unlock()
	require.Equal(t, time.Second, f.recorder.events[0].TTL)
	require.Equal(t, time.Duration(0), f.recorder.events[2].TTL, "never-expiring item has no ttl")
	require.Equal(t, "a", f.recorder.events[1].Key)
	require.Equal(t, "test", f.recorder.events[0].Cache)
}

// TestStore_Audit_EvictCarriesRemainingTTL records the lifetime the victim had left.
func TestStore_Audit_EvictCarriesRemainingTTL(t *testing.T) {
	f := newFixture()
	o := opts(1, time.Hour)
	o.EnableLogging = true
	s := f.store(o)

	s.Set("old", "v")
	f.clock.Add(10 * time.Minute)
	s.Set("new", "v")

	f.recorder.mu.Lock()
	defer f.recorder.mu.Unlock()
	require.Len(t, f.recorder.events, 3)
	evict := f.recorder.events[1]
	require.Equal(t, audit.OpEvict, evict.Op)
	require.Equal(t, "old", evict.Key)
	require.Equal(t, 50*time.Minute, evict.TTL)
}

// TestStore_Concurrent exercises the per-store lock under parallel callers and sweeps.
func TestStore_Concurrent(t *testing.T) {
	f := newFixture()
	s := New[int]("concurrent", opts(64, time.Millisecond), f.clock, evictor.New(f.provider, slog.Default()), nil, slog.Default())

	const workers = 8
	var wg sync.WaitGroup
	wg.Add(workers + 1)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				key := string(rune('A' + (w*i)%100))
				s.Set(key, i)
				s.Get(key, -1)
				s.Has(key)
				if i%10 == 0 {
					s.Delete(key)
				}
			}
		}(w)
	}
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			s.Sweep()
		}
	}()
	wg.Wait()

	require.LessOrEqual(t, s.Size(), 64)
	require.Equal(t, int64(workers*1000), s.Stats().Sets)
}
