package config

import (
	"fmt"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultAuditBufferSize      = 1024
	defaultAuditRatePerSec      = 10_000
	defaultTelemetryInterval    = 5 * time.Second
	defaultAdminListenAddr      = ":8090"
	defaultAdminShutdownTimeout = 5 * time.Second
)

// Manager groups configuration of the cache registry and its subsystems.
// Optional components are disabled by leaving them nil.
type Manager struct {
	// Defaults are applied to every cache created without explicit options.
	Defaults Options `yaml:"defaults" toml:"defaults"`

	// Eviction holds the initial global eviction policy.
	Eviction EvictionCfg `yaml:"eviction" toml:"eviction"`

	// Audit configures the sink of per-operation audit events of caches with EnableLogging.
	// If nil, audit events are discarded.
	Audit *AuditCfg `yaml:"audit" toml:"audit"`

	// Telemetry configures periodic registry statistics logs.
	// If nil, no statistics are logged.
	Telemetry *TelemetryCfg `yaml:"telemetry" toml:"telemetry"`

	// Log configures the service logger of cmd/cachemgr.
	Log LogCfg `yaml:"log" toml:"log"`

	// Admin configures the HTTP admin surface of cmd/cachemgr.
	Admin *AdminCfg `yaml:"admin" toml:"admin"`

	// Caches are created by cmd/cachemgr at startup.
	Caches []NamedOptions `yaml:"caches" toml:"caches"`
}

func Default() *Manager {
	return &Manager{
		Defaults: DefaultOptions(),
		Eviction: EvictionCfg{Policy: "lru"},
	}
}

// AdjustConfig fills zero values with defaults.
// Negative TTL and CheckInterval are kept, they mean never expire and no sweep.
func (cfg *Manager) AdjustConfig() {
	cfg.Defaults = DefaultOptions().Merge(cfg.Defaults)

	if cfg.Eviction.Policy == "" {
		cfg.Eviction.Policy = "lru"
	}
	cfg.Eviction.Policy = strings.ToLower(strings.TrimSpace(cfg.Eviction.Policy))

	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.Audit.Enabled() {
		if cfg.Audit.Output == "" {
			cfg.Audit.Output = "stdout"
		}
		if cfg.Audit.BufferSize <= 0 {
			cfg.Audit.BufferSize = defaultAuditBufferSize
		}
		if cfg.Audit.RatePerSec <= 0 {
			cfg.Audit.RatePerSec = defaultAuditRatePerSec
		}
	}

	if cfg.Telemetry.Enabled() && cfg.Telemetry.Interval <= 0 {
		cfg.Telemetry.Interval = defaultTelemetryInterval
	}

	if cfg.Admin.Enabled() {
		if cfg.Admin.ListenAddr == "" {
			cfg.Admin.ListenAddr = defaultAdminListenAddr
		}
		if cfg.Admin.ShutdownTimeout <= 0 {
			cfg.Admin.ShutdownTimeout = defaultAdminShutdownTimeout
		}
	}
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) file.
func LoadConfig(path string) (*Manager, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	cfg := &Manager{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
		}
	case ".toml":
		if _, err = toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode toml from %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	cfg.AdjustConfig()

	return cfg, nil
}
