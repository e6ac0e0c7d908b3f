package config

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from strings ("30m", "250ms")
// in TOML, YAML, and JSON alike.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalText implements encoding.TextUnmarshaler (used by TOML).
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalJSON accepts a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return d.UnmarshalText([]byte(s))
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Duration(n)
		return nil
	}
	return fmt.Errorf("duration: cannot parse %s", b)
}

// MarshalJSON emits the duration string form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `toml:"addr" yaml:"addr" json:"addr"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// SessionConfig holds session lifecycle settings.
type SessionConfig struct {
	// TTL is how long a session may stay idle before it is destroyed.
	TTL Duration `toml:"ttl" yaml:"ttl" json:"ttl"`

	// SweepInterval is how often expired sessions are collected.
	SweepInterval Duration `toml:"sweep_interval" yaml:"sweep_interval" json:"sweep_interval"`
}

// DispatchConfig holds event dispatch settings.
type DispatchConfig struct {
	// HandlerTimeout bounds a single event handler. Zero disables the bound.
	HandlerTimeout Duration `toml:"handler_timeout" yaml:"handler_timeout" json:"handler_timeout"`

	// RecoverPanics converts handler panics into error responses.
	RecoverPanics bool `toml:"recover_panics" yaml:"recover_panics" json:"recover_panics"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `toml:"level" yaml:"level" json:"level"`

	// Prefix is prepended to all log lines.
	Prefix string `toml:"prefix" yaml:"prefix" json:"prefix"`
}

// Config is the full engine configuration.
type Config struct {
	Server   ServerConfig   `toml:"server" yaml:"server" json:"server"`
	Session  SessionConfig  `toml:"session" yaml:"session" json:"session"`
	Dispatch DispatchConfig `toml:"dispatch" yaml:"dispatch" json:"dispatch"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging" json:"logging"`
}

// Default returns the configuration a bare development server runs with.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Session: SessionConfig{
			TTL:           Duration(30 * time.Minute),
			SweepInterval: Duration(time.Minute),
		},
		Dispatch: DispatchConfig{
			HandlerTimeout: 0,
			RecoverPanics:  true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Prefix: "yoguido",
		},
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalid)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: server.shutdown_timeout is negative", ErrInvalid)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("%w: session.ttl must be positive", ErrInvalid)
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("%w: session.sweep_interval must be positive", ErrInvalid)
	}
	if c.Dispatch.HandlerTimeout < 0 {
		return fmt.Errorf("%w: dispatch.handler_timeout is negative", ErrInvalid)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level)
	}
	return nil
}
