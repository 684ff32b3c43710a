package config

import "errors"

var (
	// ErrUnsupportedFormat is returned when the config file extension is neither YAML nor TOML.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrNilConfig is returned when a nil config is passed to a loader.
	ErrNilConfig = errors.New("nil config provided")
)
