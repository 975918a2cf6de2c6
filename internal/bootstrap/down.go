package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/keepdataflow/sqlbox/internal/container"
	"github.com/keepdataflow/sqlbox/internal/state"
)

// DownOptions controls the Down operation.
type DownOptions struct {
	// Name selects the instance. Empty means the configured default name.
	Name string

	// All removes every instance in the ledger instead of one.
	All bool

	// StopTimeout is the grace period before SIGKILL. Zero uses the
	// config value.
	StopTimeout time.Duration
}

// Down stops and removes owned instances, marking them removed in the
// ledger. It only touches containers sqlbox created.
func (b *Bootstrapper) Down(ctx context.Context, opts DownOptions) ([]string, error) {
	timeout := opts.StopTimeout
	if timeout == 0 {
		cfgTimeout, err := b.Config.StopTimeoutDuration()
		if err != nil {
			return nil, err
		}
		timeout = cfgTimeout
	}

	var targets []*state.Instance
	if opts.All {
		instances, err := b.Store.ListActive()
		if err != nil {
			return nil, err
		}
		targets = instances
	} else {
		inst, err := b.lookup(opts.Name)
		if err != nil {
			return nil, err
		}
		targets = []*state.Instance{inst}
	}

	var removed []string
	var errs []error
	for _, inst := range targets {
		if err := b.remove(ctx, inst, timeout); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", inst.Name, err))
			continue
		}
		removed = append(removed, inst.Name)
	}

	return removed, errors.Join(errs...)
}

// remove stops then deletes one instance's container. A container that is
// already gone still gets its ledger row closed out.
func (b *Bootstrapper) remove(ctx context.Context, inst *state.Instance, timeout time.Duration) error {
	id := container.ContainerID(inst.ContainerID)

	info, err := b.Runtime.Inspect(ctx, id)
	switch {
	case errors.Is(err, container.ErrNotFound):
		return b.Store.MarkRemoved(inst.ID)
	case err != nil:
		return err
	}

	if info.Running {
		if err := b.Runtime.Stop(ctx, id, timeout); err != nil {
			return err
		}
	}

	if err := b.Runtime.Remove(ctx, id); err != nil && !errors.Is(err, container.ErrNotFound) {
		return err
	}

	return b.Store.MarkRemoved(inst.ID)
}

// lookup resolves an instance name (empty means the configured default)
// against the ledger.
func (b *Bootstrapper) lookup(name string) (*state.Instance, error) {
	if name == "" {
		name = b.Config.Name
	}
	inst, err := b.Store.GetActiveByName(name)
	if errors.Is(err, state.ErrNotFound) {
		return nil, fmt.Errorf("no instance named %q; 'sqlbox status' lists what exists", name)
	}
	return inst, err
}
