package container

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/docker/docker/api/types"
	apicontainer "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/strslice"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
)

// DockerRuntime implements Runtime against the Docker Engine API.
type DockerRuntime struct {
	cli *client.Client
}

// NewDockerRuntime connects to the Docker daemon using the standard
// environment (DOCKER_HOST etc.) and verifies connectivity with a ping.
func NewDockerRuntime(ctx context.Context) (*DockerRuntime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := cli.Ping(pingCtx); err != nil {
		cli.Close()
		return nil, fmt.Errorf("ping docker daemon: %w", err)
	}

	return &DockerRuntime{cli: cli}, nil
}

// Close releases the API client.
func (r *DockerRuntime) Close() error {
	return r.cli.Close()
}

// Pull fetches the image, discarding the progress stream. The pull is not
// complete until the stream is drained.
func (r *DockerRuntime) Pull(ctx context.Context, image string) error {
	rc, err := r.cli.ImagePull(ctx, image, types.ImagePullOptions{})
	if err != nil {
		return fmt.Errorf("pull image %s: %w", image, err)
	}
	defer rc.Close()

	if _, err := io.Copy(io.Discard, rc); err != nil {
		return fmt.Errorf("pull image %s: %w", image, err)
	}
	return nil
}

// Build builds an image from the spec's Dockerfile. The build context is a
// tar stream containing only the Dockerfile; derived engine images copy no
// files in.
func (r *DockerRuntime) Build(ctx context.Context, spec BuildSpec) error {
	buildCtx, err := tarDockerfile(spec.Dockerfile)
	if err != nil {
		return err
	}

	resp, err := r.cli.ImageBuild(ctx, buildCtx, types.ImageBuildOptions{
		Tags:       []string{spec.Tag},
		Dockerfile: "Dockerfile",
		Remove:     true,
	})
	if err != nil {
		return fmt.Errorf("build image %s: %w", spec.Tag, err)
	}
	defer resp.Body.Close()

	// Draining surfaces build errors embedded in the JSON stream.
	if err := checkBuildStream(resp.Body); err != nil {
		return fmt.Errorf("build image %s: %w", spec.Tag, err)
	}
	return nil
}

// Create creates a container with the spec's env, port bindings, and
// command. The container is created stopped.
func (r *DockerRuntime) Create(ctx context.Context, spec Spec) (ContainerID, error) {
	env := make([]string, 0, len(spec.Env))
	for k, v := range spec.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	exposed := nat.PortSet{}
	bindings := nat.PortMap{}
	for _, pb := range spec.Ports {
		port, err := nat.NewPort("tcp", strconv.Itoa(pb.ContainerPort))
		if err != nil {
			return "", fmt.Errorf("invalid container port %d: %w", pb.ContainerPort, err)
		}
		exposed[port] = struct{}{}
		bindings[port] = append(bindings[port], nat.PortBinding{
			HostIP:   "0.0.0.0",
			HostPort: strconv.Itoa(pb.HostPort),
		})
	}

	cfg := &apicontainer.Config{
		Image:        spec.Image,
		Env:          env,
		ExposedPorts: exposed,
		Cmd:          strslice.StrSlice(spec.Cmd),
	}
	hostCfg := &apicontainer.HostConfig{
		PortBindings: bindings,
	}

	created, err := r.cli.ContainerCreate(ctx, cfg, hostCfg, nil, nil, spec.Name)
	if err != nil {
		return "", fmt.Errorf("create container %s: %w", spec.Name, err)
	}
	return ContainerID(created.ID), nil
}

// Start starts a previously created container.
func (r *DockerRuntime) Start(ctx context.Context, id ContainerID) error {
	if err := r.cli.ContainerStart(ctx, string(id), types.ContainerStartOptions{}); err != nil {
		return fmt.Errorf("start container: %w", err)
	}
	return nil
}

// Wait blocks until the container exits and returns the exit code.
func (r *DockerRuntime) Wait(ctx context.Context, id ContainerID) (int, error) {
	statusCh, errCh := r.cli.ContainerWait(ctx, string(id), apicontainer.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		return -1, fmt.Errorf("wait for container: %w", err)
	case status := <-statusCh:
		if status.Error != nil {
			return -1, fmt.Errorf("wait for container: %s", status.Error.Message)
		}
		return int(status.StatusCode), nil
	}
}

// Logs returns the container's stdout and stderr as a single stream.
// Containers without a TTY multiplex the two; stdcopy demultiplexes them
// into the pipe.
func (r *DockerRuntime) Logs(ctx context.Context, id ContainerID, follow bool) (io.ReadCloser, error) {
	rc, err := r.cli.ContainerLogs(ctx, string(id), types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     follow,
	})
	if err != nil {
		return nil, fmt.Errorf("get container logs: %w", err)
	}

	pr, pw := io.Pipe()
	go func() {
		_, err := stdcopy.StdCopy(pw, pw, rc)
		pw.CloseWithError(err)
	}()

	return &logStream{pr: pr, src: rc}, nil
}

// logStream couples the demuxed pipe with the underlying API stream so
// closing the reader also stops the log follow.
type logStream struct {
	pr  *io.PipeReader
	src io.ReadCloser
}

func (s *logStream) Read(p []byte) (int, error) { return s.pr.Read(p) }

func (s *logStream) Close() error {
	s.src.Close()
	return s.pr.Close()
}

// Stop stops a running container with the specified grace timeout.
func (r *DockerRuntime) Stop(ctx context.Context, id ContainerID, timeout time.Duration) error {
	if err := r.cli.ContainerStop(ctx, string(id), &timeout); err != nil {
		return fmt.Errorf("stop container: %w", err)
	}
	return nil
}

// Remove removes a stopped container.
func (r *DockerRuntime) Remove(ctx context.Context, id ContainerID) error {
	if err := r.cli.ContainerRemove(ctx, string(id), types.ContainerRemoveOptions{}); err != nil {
		if client.IsErrNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("remove container: %w", err)
	}
	return nil
}

// Inspect returns the observed state of a container.
func (r *DockerRuntime) Inspect(ctx context.Context, id ContainerID) (Info, error) {
	detail, err := r.cli.ContainerInspect(ctx, string(id))
	if err != nil {
		if client.IsErrNotFound(err) {
			return Info{}, ErrNotFound
		}
		return Info{}, fmt.Errorf("inspect container: %w", err)
	}

	info := Info{
		ID:    ContainerID(detail.ID),
		Name:  trimLeadingSlash(detail.Name),
		Image: detail.Config.Image,
	}
	if detail.State != nil {
		info.Status = detail.State.Status
		info.Running = detail.State.Running
		info.ExitCode = detail.State.ExitCode
		if t, err := time.Parse(time.RFC3339Nano, detail.State.StartedAt); err == nil {
			info.StartedAt = t
		}
	}
	return info, nil
}

func trimLeadingSlash(name string) string {
	if len(name) > 0 && name[0] == '/' {
		return name[1:]
	}
	return name
}

// Verify DockerRuntime implements Runtime interface
var _ Runtime = (*DockerRuntime)(nil)
