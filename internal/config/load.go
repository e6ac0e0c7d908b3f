package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load builds the effective configuration: defaults, then the file at path
// (skipped when path is empty), then YOGUIDO_* environment variables, then
// validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile decodes the file at path into cfg, format chosen by extension.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return nil
}

// applyEnv overlays YOGUIDO_* environment variables onto cfg.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("YOGUIDO_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("YOGUIDO_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	for _, entry := range []struct {
		name string
		dst  *Duration
	}{
		{"YOGUIDO_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout},
		{"YOGUIDO_SESSION_TTL", &cfg.Session.TTL},
		{"YOGUIDO_SWEEP_INTERVAL", &cfg.Session.SweepInterval},
		{"YOGUIDO_HANDLER_TIMEOUT", &cfg.Dispatch.HandlerTimeout},
	} {
		v := os.Getenv(entry.name)
		if v == "" {
			continue
		}
		if err := entry.dst.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, entry.name, v, err)
		}
	}
	return nil
}
