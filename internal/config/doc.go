// Package config loads and validates engine configuration.
//
// Configuration comes from an optional file (TOML, YAML, or JSON, chosen by
// extension), overlaid by YOGUIDO_* environment variables, on top of
// defaults that run a development server with no file at all. Durations are
// written as strings ("30m", "250ms") in every format.
//
// The Watcher reloads the file on change so a running server can pick up
// tunable settings without a restart.
package config
