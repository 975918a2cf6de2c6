package container

import "time"

// ContainerID is a unique identifier for a container.
// This is the full ID returned by the runtime, not the short form.
type ContainerID string

// PortBinding maps a host port to a container port. TCP only; the engine
// speaks TDS over a single TCP port.
type PortBinding struct {
	// HostPort is the port published on the host.
	HostPort int

	// ContainerPort is the port inside the container.
	ContainerPort int
}

// Spec specifies container creation parameters.
type Spec struct {
	// Image is the container image reference (e.g., "mcr.microsoft.com/mssql/server:2019-latest")
	Image string

	// Name is the container name (e.g., "sqlbox-dev")
	Name string

	// Env contains environment variables to set in the container
	Env map[string]string

	// Ports are host-to-container port mappings
	Ports []PortBinding

	// Cmd is the command and arguments to run. Empty means the image default.
	Cmd []string
}

// Info is the observed state of a container.
type Info struct {
	ID        ContainerID
	Name      string
	Image     string
	Status    string // runtime status string, e.g. "running" or "exited"
	Running   bool
	ExitCode  int
	StartedAt time.Time
}

// BuildSpec specifies an image build.
type BuildSpec struct {
	// Tag is the name applied to the built image.
	Tag string

	// Dockerfile is the complete Dockerfile content.
	Dockerfile string
}
