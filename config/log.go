package config

type LogCfg struct {
	// Format is "json" (default) or "text".
	Format string `yaml:"format" toml:"format" env:"FORMAT"`

	// Level is one of "debug", "info" (default), "warn", "error".
	Level string `yaml:"level" toml:"level" env:"LEVEL"`
}
