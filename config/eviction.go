package config

// PolicyKey is the configuration key the evictor looks the policy up by.
const PolicyKey = "eviction.policy"

type EvictionCfg struct {
	// Policy is the initial global eviction policy.
	// Supported values:
	//   - "lru":      least recently used item is evicted (default)
	//   - "lfu":      approximated, behaves exactly like "lru"
	//   - "fifo":     oldest created item is evicted
	//   - "priority": item with the lowest priority is evicted
	// Unknown values fall back to "lru" at eviction time.
	Policy string `yaml:"policy" toml:"policy" env:"POLICY"`
}
