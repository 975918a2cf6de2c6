package container

import (
	"context"
	"errors"
	"os/exec"
)

// ErrNoRuntime is returned when no container runtime is found.
var ErrNoRuntime = errors.New("no container runtime found (need a docker daemon, or docker/podman on PATH)")

// DetectCLI finds an available container CLI binary.
// Checks docker first, then podman. Verifies the binary actually works
// by running `<bin> version`.
func DetectCLI() (string, error) {
	for _, bin := range []string{"docker", "podman"} {
		if _, err := exec.LookPath(bin); err != nil {
			continue
		}
		cmd := exec.Command(bin, "version")
		if err := cmd.Run(); err != nil {
			continue
		}
		return bin, nil
	}
	return "", ErrNoRuntime
}

// NewRuntime selects a Runtime for the host. The Engine API is preferred;
// when no daemon answers, a docker or podman CLI binary is used instead.
// The bin argument forces a specific CLI binary and skips API detection.
func NewRuntime(ctx context.Context, bin string) (Runtime, error) {
	if bin != "" {
		if _, err := exec.LookPath(bin); err != nil {
			return nil, errors.Join(ErrNoRuntime, err)
		}
		return NewCLIRuntime(bin), nil
	}

	if rt, err := NewDockerRuntime(ctx); err == nil {
		return rt, nil
	}

	detected, err := DetectCLI()
	if err != nil {
		return nil, err
	}
	return NewCLIRuntime(detected), nil
}
