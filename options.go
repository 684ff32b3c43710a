package cachemgr

import (
	"github.com/Borislavv/go-ash-cachemgr/config"
	"github.com/Borislavv/go-ash-cachemgr/internal/audit"
	"github.com/Borislavv/go-ash-cachemgr/internal/evictor"
	"github.com/benbjohnson/clock"
	"time"
)

// Option configures a Registry.
type Option func(*Registry)

// WithClock replaces the wall clock, mostly for tests driving a *clock.Mock.
func WithClock(clk clock.Clock) Option {
	return func(r *Registry) {
		if clk != nil {
			r.clock = clk
		}
	}
}

// WithPolicyProvider makes the evictor read the policy from p instead of the built-in memory provider.
// The policy is looked up under config.PolicyKey on every eviction.
func WithPolicyProvider(p evictor.Provider) Option {
	return func(r *Registry) {
		if p != nil {
			r.provider = p
		}
	}
}

// WithAuditor sends audit events of caches with logging enabled to rec instead of the configured sink.
func WithAuditor(rec AuditRecorder) Option {
	return func(r *Registry) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// CacheOption overrides one field of the registry defaults for a new cache.
type CacheOption func(*config.Options)

// WithMaxItems sets the capacity. Non-positive values keep the default.
func WithMaxItems(n int) CacheOption {
	return func(o *config.Options) {
		if n > 0 {
			o.MaxItems = n
		}
	}
}

// WithTTL sets the default item TTL of the cache. ttl <= 0 means items never expire.
func WithTTL(ttl time.Duration) CacheOption {
	return func(o *config.Options) { o.TTL = ttl }
}

// WithCheckInterval sets the cleanup sweep interval. interval <= 0 disables the sweep.
func WithCheckInterval(interval time.Duration) CacheOption {
	return func(o *config.Options) { o.CheckInterval = interval }
}

// WithLogging toggles audit events for the cache.
func WithLogging(enabled bool) CacheOption {
	return func(o *config.Options) { o.EnableLogging = enabled }
}

// WithOptions overlays the non-zero fields of in.
func WithOptions(in config.Options) CacheOption {
	return func(o *config.Options) { *o = o.Merge(in) }
}

type (
	AuditEvent    = audit.Event
	AuditRecorder = audit.Recorder
)
