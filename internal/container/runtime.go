package container

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when the named container does not exist.
var ErrNotFound = errors.New("container not found")

// Runtime provides container lifecycle management.
// Implementations must be safe for concurrent use.
type Runtime interface {
	// Pull fetches an image from its registry. A no-op if already present
	// is acceptable but not required.
	Pull(ctx context.Context, image string) error

	// Build builds an image from the spec's Dockerfile and tags it.
	Build(ctx context.Context, spec BuildSpec) error

	// Create creates a new container but does not start it.
	// Returns the container ID on success.
	Create(ctx context.Context, spec Spec) (ContainerID, error)

	// Start starts a previously created container.
	Start(ctx context.Context, id ContainerID) error

	// Wait blocks until the container exits and returns the exit code.
	Wait(ctx context.Context, id ContainerID) (exitCode int, err error)

	// Logs returns a stream of container logs (stdout and stderr combined).
	// The caller must close the returned ReadCloser.
	Logs(ctx context.Context, id ContainerID, follow bool) (io.ReadCloser, error)

	// Stop stops a running container. Sends SIGTERM, waits for timeout,
	// then sends SIGKILL if still running.
	Stop(ctx context.Context, id ContainerID, timeout time.Duration) error

	// Remove removes a container. The container must be stopped first.
	Remove(ctx context.Context, id ContainerID) error

	// Inspect returns the observed state of a container, or ErrNotFound.
	Inspect(ctx context.Context, id ContainerID) (Info, error)
}
