package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/keepdataflow/sqlbox/internal/engine"
	"github.com/keepdataflow/sqlbox/internal/image"
)

// ValidationError contains details about what failed validation.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config.%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// Validate re-checks a config after callers mutate it (flag overrides).
func Validate(cfg *Config) error {
	return validateConfig(cfg)
}

// validateConfig checks all config values for validity.
// Returns nil if valid, or joined errors for all validation failures.
func validateConfig(cfg *Config) error {
	var errs []error

	// Name must not be empty
	if cfg.Name == "" {
		errs = append(errs, &ValidationError{
			Field:   "name",
			Value:   cfg.Name,
			Message: "must not be empty",
		})
	}

	// Engine must be a known variant
	if _, err := engine.ParseVariant(cfg.Engine); err != nil {
		errs = append(errs, &ValidationError{
			Field:   "engine",
			Value:   cfg.Engine,
			Message: "must be 'server' or 'edge'",
		})
	}

	// Port must be a well-formed port number
	if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, &ValidationError{
			Field:   "port",
			Value:   cfg.Port,
			Message: "must be in range 1-65535",
		})
	}

	// Image, when set, must be a syntactically valid registry-path:tag
	if cfg.Image != "" {
		if _, err := image.ParseReference(cfg.Image); err != nil {
			errs = append(errs, &ValidationError{
				Field:   "image",
				Value:   cfg.Image,
				Message: err.Error(),
			})
		}
	}

	// Runtime, when set, must be a known CLI binary
	if cfg.Runtime != "" && cfg.Runtime != "docker" && cfg.Runtime != "podman" {
		errs = append(errs, &ValidationError{
			Field:   "runtime",
			Value:   cfg.Runtime,
			Message: "must be 'docker' or 'podman'",
		})
	}

	// SAPassword, when set, must satisfy the engine's complexity policy
	if cfg.SAPassword != "" {
		if err := engine.ValidatePassword(cfg.SAPassword); err != nil {
			errs = append(errs, &ValidationError{
				Field:   "sa_password",
				Value:   "(redacted)",
				Message: err.Error(),
			})
		}
	}

	// StopTimeout must be a valid Go duration string
	if _, err := time.ParseDuration(cfg.StopTimeout); err != nil {
		errs = append(errs, &ValidationError{
			Field:   "stop_timeout",
			Value:   cfg.StopTimeout,
			Message: fmt.Sprintf("invalid duration: %v", err),
		})
	}

	// Build.Tag must be a syntactically valid image reference
	if cfg.Build.Tag != "" {
		if _, err := image.ParseReference(cfg.Build.Tag); err != nil {
			errs = append(errs, &ValidationError{
				Field:   "build.tag",
				Value:   cfg.Build.Tag,
				Message: err.Error(),
			})
		}
	}

	// Wait.Timeout must be a valid Go duration string
	if _, err := time.ParseDuration(cfg.Wait.Timeout); err != nil {
		errs = append(errs, &ValidationError{
			Field:   "wait.timeout",
			Value:   cfg.Wait.Timeout,
			Message: fmt.Sprintf("invalid duration: %v", err),
		})
	}

	// Wait.Interval must be a valid Go duration string
	if _, err := time.ParseDuration(cfg.Wait.Interval); err != nil {
		errs = append(errs, &ValidationError{
			Field:   "wait.interval",
			Value:   cfg.Wait.Interval,
			Message: fmt.Sprintf("invalid duration: %v", err),
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
