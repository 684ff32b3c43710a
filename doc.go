// Package cachemgr is a registry of named, independently configured in-memory caches.
//
// Every cache has a capacity, a default TTL that items may override, lazy expiry on
// reads, a cleanup scheduler sweeping expired items in the background and usage
// statistics. When a full cache receives a new key, exactly one victim is evicted
// under the global policy (lru, lfu, fifo or priority) read fresh from the policy
// provider at that moment. The lfu policy is an approximation and behaves as lru.
//
// A Registry is constructed explicitly and torn down with Close:
//
//	reg := cachemgr.New(ctx, cfg, logger)
//	defer reg.Close()
//
//	users := reg.CreateCache("users", cachemgr.WithMaxItems(500), cachemgr.WithTTL(time.Minute))
//	users.Set("u1", profile, cachemgr.WithPriority(10))
//	p := cachemgr.GetAs[*Profile](users, "u1", nil)
//
// CreateCache is idempotent: asking for an existing name returns the same cache and the
// new options are ignored. A destroyed cache handle stays safe to call, every operation
// on it is a no-op.
package cachemgr
