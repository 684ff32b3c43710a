package evictor

import (
	"github.com/Borislavv/go-ash-cachemgr/config"
	"iter"
	"log/slog"
)

// Provider is the generic configuration lookup the policy is read from.
type Provider interface {
	Lookup(key, def string) string
}

type Evictor interface {
	// Victim picks exactly one key to evict, ok is false for an empty candidate set.
	Victim(candidates iter.Seq[Candidate]) (key string, ok bool)
	Metrics() (calls, victims, fallbacks int64)
}

// PolicyEvictor reads the policy from the provider on every call and never caches it,
// so every store sharing the provider applies the policy in force at eviction time.
type PolicyEvictor struct {
	provider Provider
	logger   *slog.Logger
	counters *evictorCounters
}

func New(provider Provider, logger *slog.Logger) *PolicyEvictor {
	return &PolicyEvictor{
		provider: provider,
		logger:   logger,
		counters: newEvictorCounters(),
	}
}

// Policy returns the policy in force right now.
func (e *PolicyEvictor) Policy() Policy {
	policy, _, _ := e.lookup()
	return policy
}

func (e *PolicyEvictor) Victim(candidates iter.Seq[Candidate]) (key string, ok bool) {
	e.counters.calls.Add(1)

	policy, raw, known := e.lookup()
	if !known {
		e.counters.fallbacks.Add(1)
		e.logger.Debug("unknown eviction policy, using lru", "policy", raw)
	}

	var victim Candidate
	for c := range candidates {
		if victim == nil || policy.less(c, victim) {
			victim = c
		}
	}
	if victim == nil {
		return "", false
	}

	e.counters.victims.Add(1)
	return victim.Key(), true
}

func (e *PolicyEvictor) lookup() (policy Policy, raw string, known bool) {
	raw = e.provider.Lookup(config.PolicyKey, string(LRU))
	policy, known = ParsePolicy(raw)
	return policy, raw, known
}

func (e *PolicyEvictor) Metrics() (calls, victims, fallbacks int64) {
	return e.counters.snapshot()
}
