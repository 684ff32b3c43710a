package config

import "time"

type AdminCfg struct {
	// ListenAddr is the address of the admin HTTP server, e.g. ":8090".
	ListenAddr string `yaml:"listen_addr" toml:"listen_addr" env:"LISTEN_ADDR"`

	// ShutdownTimeout bounds the graceful shutdown of the admin server.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

func (cfg *AdminCfg) Enabled() bool {
	return cfg != nil
}
