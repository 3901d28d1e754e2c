// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and LIGHTSWITCH_* environment variables on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Registration policies for the endpoint directory.
const (
	// PolicyStartup records each route once, when it is declared.
	PolicyStartup = "startup"
	// PolicyPerRequest appends a descriptor every time a route is served.
	PolicyPerRequest = "per_request"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr"`

	// FilesDir is the directory listed by /api/files/v2 and served by /api/download/v2.
	FilesDir string `koanf:"files_dir"`

	// NetCoreVersion and APICreationDate are reported by /api/lightswitch/v2.
	NetCoreVersion  string `koanf:"net_core_version"`
	APICreationDate string `koanf:"api_creation_date"`

	// RestartEnabled gates POST /api/restart. The endpoint is unauthenticated.
	RestartEnabled bool `koanf:"restart_enabled"`

	// RestartDelayMS is the pause between answering a restart request and exiting.
	RestartDelayMS int `koanf:"restart_delay_ms"`

	// RestartGraceful drains in-flight requests before exiting.
	RestartGraceful bool `koanf:"restart_graceful"`

	// RestartDrainTimeoutMS bounds the drain when RestartGraceful is set.
	RestartDrainTimeoutMS int `koanf:"restart_drain_timeout_ms"`

	// RegistrationPolicy is PolicyStartup or PolicyPerRequest.
	RegistrationPolicy string `koanf:"registration_policy"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":3000",
		FilesDir:              "Files",
		NetCoreVersion:        "5.0.0",
		APICreationDate:       "2024-05-29",
		RestartEnabled:        true,
		RestartDelayMS:        1000,
		RestartGraceful:       false,
		RestartDrainTimeoutMS: 5000,
		RegistrationPolicy:    PolicyStartup,
	}
}

// RestartDelay returns RestartDelayMS as a duration.
func (c *Config) RestartDelay() time.Duration {
	return time.Duration(c.RestartDelayMS) * time.Millisecond
}

// RestartDrainTimeout returns RestartDrainTimeoutMS as a duration.
func (c *Config) RestartDrainTimeout() time.Duration {
	return time.Duration(c.RestartDrainTimeoutMS) * time.Millisecond
}

// Validate reports the first invalid field, wrapped with ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.FilesDir) == "":
		return fmt.Errorf("%w: files_dir must not be empty", ErrInvalidConfig)
	case c.RestartDelayMS < 0:
		return fmt.Errorf("%w: restart_delay_ms must not be negative", ErrInvalidConfig)
	case c.RestartDrainTimeoutMS < 0:
		return fmt.Errorf("%w: restart_drain_timeout_ms must not be negative", ErrInvalidConfig)
	}
	switch c.RegistrationPolicy {
	case PolicyStartup, PolicyPerRequest:
	default:
		return fmt.Errorf("%w: unknown registration_policy %q", ErrInvalidConfig, c.RegistrationPolicy)
	}
	return nil
}
