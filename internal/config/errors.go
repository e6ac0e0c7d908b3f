package config

import "errors"

// Sentinel errors for loading and validation.
var (
	// ErrInvalid indicates a configuration value the engine cannot run with.
	ErrInvalid = errors.New("invalid configuration")

	// ErrUnsupportedFormat indicates a config file extension the loader does
	// not recognize.
	ErrUnsupportedFormat = errors.New("unsupported config format")
)
