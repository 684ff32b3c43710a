package cache

import "time"

// Stats is a point-in-time view of a store.
type Stats struct {
	Name        string    `json:"name"`
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	Sets        int64     `json:"sets"`
	Deletes     int64     `json:"deletes"`
	Evictions   int64     `json:"evictions"`
	LastCleanup time.Time `json:"last_cleanup"` // zero if never swept
	Size        int       `json:"size"`
	MaxSize     int       `json:"max_size"`
	HitRate     float64   `json:"hit_rate"`
}

// HitRate is hits / (hits + misses) with 1 as divisor when both are zero.
func HitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		total = 1
	}
	return float64(hits) / float64(total)
}
