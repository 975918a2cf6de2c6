package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for sqlbox.
// It is immutable after creation via LoadConfig().
type Config struct {
	// Name is the container name for the default instance
	Name string `yaml:"name"`

	// Engine selects the image family: "server" or "edge"
	Engine string `yaml:"engine"`

	// Image overrides the engine variant's default base image
	Image string `yaml:"image,omitempty"`

	// Port is the host port mapped to the engine's client port
	Port int `yaml:"port"`

	// SAPassword is the administrator credential passed to the engine.
	// Prefer the SQLBOX_SA_PASSWORD environment variable over the file.
	SAPassword string `yaml:"sa_password,omitempty"`

	// Runtime forces a container CLI binary ("docker" or "podman").
	// Empty means auto-detect, preferring the Engine API.
	Runtime string `yaml:"runtime,omitempty"`

	// StopTimeout is the grace period before a stop escalates to SIGKILL
	StopTimeout string `yaml:"stop_timeout"`

	// Build contains derived-image build settings
	Build BuildConfig `yaml:"build"`

	// Wait contains readiness probe settings
	Wait WaitConfig `yaml:"wait"`
}

// BuildConfig controls `sqlbox build`.
type BuildConfig struct {
	// Tag is the name applied to the derived image
	Tag string `yaml:"tag"`
}

// WaitConfig controls the engine readiness probe.
type WaitConfig struct {
	// Timeout is the maximum time to wait for the engine to accept logins
	Timeout string `yaml:"timeout"`

	// Interval is the delay between login attempts
	Interval string `yaml:"interval"`
}

// WaitTimeoutDuration parses the wait timeout as a Duration.
func (c *Config) WaitTimeoutDuration() (time.Duration, error) {
	return time.ParseDuration(c.Wait.Timeout)
}

// WaitIntervalDuration parses the probe interval as a Duration.
func (c *Config) WaitIntervalDuration() (time.Duration, error) {
	return time.ParseDuration(c.Wait.Interval)
}

// StopTimeoutDuration parses the stop grace period as a Duration.
func (c *Config) StopTimeoutDuration() (time.Duration, error) {
	return time.ParseDuration(c.StopTimeout)
}

// RequireCredentials checks that the administrator credential is present.
// Only the operations that hand the password to the engine (up, build,
// wait) need it; status/logs/down work without one.
func (c *Config) RequireCredentials() error {
	if c.SAPassword == "" {
		return fmt.Errorf("sa password not set (use sa_password in .sqlbox.yaml, SQLBOX_SA_PASSWORD, or --sa-password)")
	}
	return nil
}

// LoadConfig loads configuration from the given directory.
// It applies defaults, then file values, then environment overrides,
// then validates.
//
// Parameters:
//   - dir: directory containing an optional .sqlbox.yaml
//
// Returns the validated Config or an error if validation fails.
func LoadConfig(dir string) (*Config, error) {
	cfg := DefaultConfig()

	// Try to load config file (optional)
	configPath := filepath.Join(dir, ".sqlbox.yaml")
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	// Note: missing config file is not an error (use defaults)

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
