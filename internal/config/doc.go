// Package config loads, normalizes, and validates the TOML configuration
// that drives a squeeze run.
package config
