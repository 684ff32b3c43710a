package config

import (
	"fmt"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const EnvPrefix = "CACHEMGR_"

type envTarget struct {
	prefix string
	v      any
}

// LoadDotEnv loads the given .env files (or ./.env if none given) into the process environment.
// Missing files are not an error.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// LoadEnv overrides cfg with CACHEMGR_* environment variables.
// Variables that are not set keep the current values.
//
//	CACHEMGR_DEFAULT_MAX_ITEMS=500
//	CACHEMGR_DEFAULT_TTL=30s
//	CACHEMGR_EVICTION_POLICY=fifo
//	CACHEMGR_AUDIT_RATE_PER_SEC=100   (only when audit is configured)
func LoadEnv(cfg *Manager) error {
	if cfg == nil {
		return ErrNilConfig
	}

	targets := []envTarget{
		{prefix: "DEFAULT_", v: &cfg.Defaults},
		{prefix: "EVICTION_", v: &cfg.Eviction},
		{prefix: "LOG_", v: &cfg.Log},
	}
	if cfg.Audit.Enabled() {
		targets = append(targets, envTarget{prefix: "AUDIT_", v: cfg.Audit})
	}
	if cfg.Telemetry.Enabled() {
		targets = append(targets, envTarget{prefix: "TELEMETRY_", v: cfg.Telemetry})
	}
	if cfg.Admin.Enabled() {
		targets = append(targets, envTarget{prefix: "ADMIN_", v: cfg.Admin})
	}

	for _, t := range targets {
		if err := env.ParseWithOptions(t.v, env.Options{Prefix: EnvPrefix + t.prefix}); err != nil {
			return fmt.Errorf("parse %s%s* env: %w", EnvPrefix, t.prefix, err)
		}
	}
	cfg.AdjustConfig()

	return nil
}
