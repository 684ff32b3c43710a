package config

type AuditCfg struct {
	// Output is the destination of audit events: "stdout", "stderr" or a file path.
	Output string `yaml:"output" toml:"output" env:"OUTPUT"`

	// BufferSize is the number of events queued before new ones are dropped.
	BufferSize int `yaml:"buffer_size" toml:"buffer_size" env:"BUFFER_SIZE"`

	// RatePerSec caps how many events per second are written to Output.
	RatePerSec int `yaml:"rate_per_sec" toml:"rate_per_sec" env:"RATE_PER_SEC"`
}

func (cfg *AuditCfg) Enabled() bool {
	return cfg != nil
}
