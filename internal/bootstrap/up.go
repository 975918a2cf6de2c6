package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/keepdataflow/sqlbox/internal/container"
	"github.com/keepdataflow/sqlbox/internal/engine"
	"github.com/keepdataflow/sqlbox/internal/state"
)

// UpOptions controls the Up operation.
type UpOptions struct {
	// Wait blocks until the engine accepts an sa login.
	Wait bool

	// WaitTimeout bounds the readiness wait. Zero uses the config value.
	WaitTimeout time.Duration
}

// Up pulls the base image, creates and starts a named engine container with
// the required environment and port mapping, and records it in the ledger.
func (b *Bootstrapper) Up(ctx context.Context, opts UpOptions) (*state.Instance, error) {
	base, err := b.baseImage()
	if err != nil {
		return nil, err
	}
	if err := b.Config.RequireCredentials(); err != nil {
		return nil, err
	}
	if err := engine.ValidatePassword(b.Config.SAPassword); err != nil {
		return nil, err
	}

	// Refuse up front if the name is already taken in the ledger; the
	// runtime would reject the duplicate name anyway, later and less
	// clearly.
	if existing, err := b.Store.GetActiveByName(b.Config.Name); err == nil {
		return nil, fmt.Errorf("instance %q already exists (container %s); run 'sqlbox down %s' first",
			existing.Name, shortID(existing.ContainerID), existing.Name)
	} else if !errors.Is(err, state.ErrNotFound) {
		return nil, err
	}

	if err := b.Runtime.Pull(ctx, base.String()); err != nil {
		return nil, err
	}

	spec := container.Spec{
		Image: base.String(),
		Name:  b.Config.Name,
		Env:   engine.Env(b.Config.SAPassword),
		Ports: []container.PortBinding{
			{HostPort: b.Config.Port, ContainerPort: engine.DefaultPort},
		},
		Cmd: []string{engine.BinaryPath},
	}

	id, err := b.Runtime.Create(ctx, spec)
	if err != nil {
		return nil, err
	}

	inst := &state.Instance{
		Name:        b.Config.Name,
		Engine:      b.Config.Engine,
		Image:       base.String(),
		HostPort:    b.Config.Port,
		ContainerID: string(id),
		Status:      state.StatusCreated,
	}
	if err := b.Store.CreateInstance(inst); err != nil {
		// Ledger insert failed after create; drop the container rather
		// than leaving one sqlbox doesn't know it owns.
		_ = b.Runtime.Remove(ctx, id)
		return nil, err
	}

	if err := b.Runtime.Start(ctx, id); err != nil {
		return inst, err
	}
	if err := b.Store.UpdateStatus(inst.ID, state.StatusRunning); err != nil {
		return inst, err
	}
	inst.Status = state.StatusRunning

	if opts.Wait {
		if err := b.waitReady(ctx, inst, opts.WaitTimeout); err != nil {
			return inst, err
		}
	}

	return inst, nil
}

// WaitReady blocks until the named instance's engine accepts an sa login.
func (b *Bootstrapper) WaitReady(ctx context.Context, name string, timeout time.Duration) error {
	inst, err := b.lookup(name)
	if err != nil {
		return err
	}
	return b.waitReady(ctx, inst, timeout)
}

func (b *Bootstrapper) waitReady(ctx context.Context, inst *state.Instance, timeout time.Duration) error {
	if err := b.Config.RequireCredentials(); err != nil {
		return err
	}

	if timeout == 0 {
		cfgTimeout, err := b.Config.WaitTimeoutDuration()
		if err != nil {
			return err
		}
		timeout = cfgTimeout
	}
	interval, err := b.Config.WaitIntervalDuration()
	if err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	probeErr := engine.WaitReady(waitCtx, engine.ProbeConfig{
		Port:       inst.HostPort,
		SAPassword: b.Config.SAPassword,
		Interval:   interval,
	})
	if probeErr == nil {
		return nil
	}

	// The engine exiting (weak password, rejected EULA) is the usual cause
	// of a probe timeout; report that instead of the timeout when we can
	// see it.
	if info, err := b.Runtime.Inspect(ctx, container.ContainerID(inst.ContainerID)); err == nil && !info.Running {
		_ = b.Store.UpdateStatus(inst.ID, state.StatusStopped)
		return fmt.Errorf("engine exited with status %d before becoming ready; see 'sqlbox logs %s'",
			info.ExitCode, inst.Name)
	}

	return probeErr
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
