package lifetimer

// NoOpLifetimer is used for caches without TTL or check interval.
// It performs no sweeps and reports zero metrics.
type NoOpLifetimer struct{}

// LifetimerMetrics always returns zero values.
func (NoOpLifetimer) LifetimerMetrics() (sweeps, removed int64) {
	return 0, 0
}

// Close does nothing and returns nil.
func (NoOpLifetimer) Close() error {
	return nil
}
