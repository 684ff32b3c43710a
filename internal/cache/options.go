package cache

import "time"

type itemOptions struct {
	ttl      time.Duration
	priority int
}

// ItemOption customizes a single Set call.
type ItemOption func(*itemOptions)

// WithTTL overrides the store's default TTL for one item. ttl <= 0 means the item never expires.
func WithTTL(ttl time.Duration) ItemOption {
	return func(o *itemOptions) {
		o.ttl = ttl
	}
}

// WithPriority sets the item's priority, used only by the priority eviction policy.
func WithPriority(priority int) ItemOption {
	return func(o *itemOptions) {
		o.priority = priority
	}
}
