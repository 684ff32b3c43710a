package config

import "time"

const (
	DefaultMaxItems      = 1000
	DefaultTTL           = 5 * time.Minute
	DefaultCheckInterval = time.Minute
)

// Options is the per-cache configuration fixed at creation time.
type Options struct {
	// MaxItems bounds the number of items held by a single cache.
	// When a new key is set into a full cache, exactly one victim is evicted first.
	MaxItems int `yaml:"max_items" toml:"max_items" env:"MAX_ITEMS"`

	// TTL is the default time-to-live applied to items set without an override.
	// A negative TTL means items never expire. When merged over defaults (config files,
	// env, ConfigureCacheDefaults) zero keeps the default; set directly, zero never expires too.
	TTL time.Duration `yaml:"ttl" toml:"ttl" env:"TTL"`

	// CheckInterval is how often the cleanup scheduler sweeps expired items.
	// The scheduler runs only when both TTL and CheckInterval are positive.
	// When merged over defaults zero keeps the default interval, so use a negative
	// value to turn the scheduler off from a config file or env.
	CheckInterval time.Duration `yaml:"check_interval" toml:"check_interval" env:"CHECK_INTERVAL"`

	// EnableLogging turns on audit events for mutating operations of the cache.
	EnableLogging bool `yaml:"enable_logging" toml:"enable_logging" env:"ENABLE_LOGGING"`
}

func DefaultOptions() Options {
	return Options{
		MaxItems:      DefaultMaxItems,
		TTL:           DefaultTTL,
		CheckInterval: DefaultCheckInterval,
	}
}

// Merge overlays the non-zero fields of in onto o.
// EnableLogging can only be switched on by a merge.
func (o Options) Merge(in Options) Options {
	if in.MaxItems > 0 {
		o.MaxItems = in.MaxItems
	}
	if in.TTL != 0 {
		o.TTL = in.TTL
	}
	if in.CheckInterval != 0 {
		o.CheckInterval = in.CheckInterval
	}
	if in.EnableLogging {
		o.EnableLogging = true
	}
	return o
}

// SweepEnabled reports whether a cleanup scheduler must run for these options.
func (o Options) SweepEnabled() bool {
	return o.TTL > 0 && o.CheckInterval > 0
}

// NamedOptions describes a cache created at startup.
type NamedOptions struct {
	Name    string  `yaml:"name" toml:"name"`
	Options Options `yaml:"options" toml:"options"`
}
