package bootstrap

import (
	"context"
	"errors"
	"io"

	"github.com/keepdataflow/sqlbox/internal/container"
	"github.com/keepdataflow/sqlbox/internal/state"
)

// InstanceStatus pairs a ledger entry with the runtime's view of its
// container. Live is zero when the container no longer exists.
type InstanceStatus struct {
	Instance *state.Instance
	Live     container.Info
	Found    bool
}

// Status reconciles the ledger against the runtime.
func (b *Bootstrapper) Status(ctx context.Context) ([]InstanceStatus, error) {
	instances, err := b.Store.ListActive()
	if err != nil {
		return nil, err
	}

	statuses := make([]InstanceStatus, 0, len(instances))
	for _, inst := range instances {
		st := InstanceStatus{Instance: inst}
		info, err := b.Runtime.Inspect(ctx, container.ContainerID(inst.ContainerID))
		switch {
		case errors.Is(err, container.ErrNotFound):
			// Container deleted outside sqlbox; report the gap rather
			// than silently dropping the row.
		case err != nil:
			return nil, err
		default:
			st.Live = info
			st.Found = true
		}
		statuses = append(statuses, st)
	}

	return statuses, nil
}

// Logs streams the named instance's engine output.
// The caller must close the returned ReadCloser.
func (b *Bootstrapper) Logs(ctx context.Context, name string, follow bool) (io.ReadCloser, error) {
	inst, err := b.lookup(name)
	if err != nil {
		return nil, err
	}
	return b.Runtime.Logs(ctx, container.ContainerID(inst.ContainerID), follow)
}
