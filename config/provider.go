package config

import "sync"

// MemoryProvider is a mutex-guarded key/value configuration source.
// It backs the eviction policy lookup when no external provider is injected.
type MemoryProvider struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryProvider(initial map[string]string) *MemoryProvider {
	values := make(map[string]string, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &MemoryProvider{values: values}
}

// Lookup returns the value stored by key or def when the key is unknown.
func (p *MemoryProvider) Lookup(key, def string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		return v
	}
	return def
}

func (p *MemoryProvider) Set(key, value string) {
	p.mu.Lock()
	p.values[key] = value
	p.mu.Unlock()
}
