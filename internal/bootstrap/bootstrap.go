// Package bootstrap wires configuration, the container runtime, and the
// instance ledger into the operations the CLI exposes: build a derived
// engine image, run an instance, remove it, report status, stream logs,
// and wait for the engine to accept logins.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/keepdataflow/sqlbox/internal/config"
	"github.com/keepdataflow/sqlbox/internal/container"
	"github.com/keepdataflow/sqlbox/internal/engine"
	"github.com/keepdataflow/sqlbox/internal/image"
	"github.com/keepdataflow/sqlbox/internal/state"
)

// Bootstrapper holds all wired components.
type Bootstrapper struct {
	Config  *config.Config
	Runtime container.Runtime
	Store   *state.DB
}

// New assembles a Bootstrapper from its components.
func New(cfg *config.Config, rt container.Runtime, store *state.DB) (*Bootstrapper, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if rt == nil {
		return nil, fmt.Errorf("runtime cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	return &Bootstrapper{Config: cfg, Runtime: rt, Store: store}, nil
}

// Wire opens the default state database, detects a container runtime, and
// assembles a Bootstrapper around the config.
func Wire(ctx context.Context, cfg *config.Config) (*Bootstrapper, error) {
	rt, err := container.NewRuntime(ctx, cfg.Runtime)
	if err != nil {
		return nil, err
	}

	statePath, err := state.DefaultPath()
	if err != nil {
		return nil, err
	}
	store, err := state.Open(statePath)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}

	return New(cfg, rt, store)
}

// Close releases the state database and, when the runtime holds a
// connection, the runtime.
func (b *Bootstrapper) Close() error {
	var errs []error
	if closer, ok := b.Runtime.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if b.Store != nil {
		if err := b.Store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// baseImage resolves the base image reference: the configured override when
// set, otherwise the engine variant's default.
func (b *Bootstrapper) baseImage() (image.Reference, error) {
	variant, err := engine.ParseVariant(b.Config.Engine)
	if err != nil {
		return image.Reference{}, err
	}
	raw := b.Config.Image
	if raw == "" {
		raw = variant.DefaultImage()
	}
	return image.ParseReference(raw)
}

// derivedImage assembles the derived image definition for Build: required
// env baked in, engine port exposed, server executable as the command.
func (b *Bootstrapper) derivedImage() (image.DerivedImage, error) {
	base, err := b.baseImage()
	if err != nil {
		return image.DerivedImage{}, err
	}
	if err := b.Config.RequireCredentials(); err != nil {
		return image.DerivedImage{}, err
	}
	if err := engine.ValidatePassword(b.Config.SAPassword); err != nil {
		return image.DerivedImage{}, err
	}
	return image.DerivedImage{
		Base:       base,
		Env:        engine.Env(b.Config.SAPassword),
		ExposePort: engine.DefaultPort,
		Cmd:        []string{engine.BinaryPath},
	}, nil
}
