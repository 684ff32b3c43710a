package config

import "time"

type TelemetryCfg struct {
	// Interval between two registry statistics log records.
	Interval time.Duration `yaml:"interval" toml:"interval" env:"INTERVAL"`
}

func (cfg *TelemetryCfg) Enabled() bool {
	return cfg != nil
}
