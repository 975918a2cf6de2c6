package container

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Runner executes container runtime commands. The seam exists so argument
// construction is testable without a daemon.
type Runner interface {
	Exec(ctx context.Context, bin string, args ...string) (string, error)
	ExecWithStdin(ctx context.Context, bin string, stdin io.Reader, args ...string) (string, error)
}

// osRunner executes real commands via exec.CommandContext.
type osRunner struct{}

func (osRunner) Exec(ctx context.Context, bin string, args ...string) (string, error) {
	return run(ctx, bin, nil, args)
}

func (osRunner) ExecWithStdin(ctx context.Context, bin string, stdin io.Reader, args ...string) (string, error) {
	return run(ctx, bin, stdin, args)
}

func run(ctx context.Context, bin string, stdin io.Reader, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s %s failed: %w\nstderr: %s",
			bin, strings.Join(args, " "), err, stderr.String())
	}

	return stdout.String(), nil
}

// CLIRuntime implements Runtime using the docker/podman CLI.
type CLIRuntime struct {
	bin    string // "docker" or "podman"
	runner Runner
}

// NewCLIRuntime creates a Runtime driving the specified binary.
// Use DetectRuntime() to find an available one first.
func NewCLIRuntime(bin string) *CLIRuntime {
	return &CLIRuntime{bin: bin, runner: osRunner{}}
}

// Pull fetches an image from its registry.
func (r *CLIRuntime) Pull(ctx context.Context, image string) error {
	if _, err := r.runner.Exec(ctx, r.bin, "pull", image); err != nil {
		return fmt.Errorf("pull image %s: %w", image, err)
	}
	return nil
}

// Build builds an image from the Dockerfile, passed on stdin so no build
// directory is needed.
func (r *CLIRuntime) Build(ctx context.Context, spec BuildSpec) error {
	stdin := strings.NewReader(spec.Dockerfile)
	if _, err := r.runner.ExecWithStdin(ctx, r.bin, stdin, "build", "-t", spec.Tag, "-"); err != nil {
		return fmt.Errorf("build image %s: %w", spec.Tag, err)
	}
	return nil
}

// Create creates a new container but does not start it.
func (r *CLIRuntime) Create(ctx context.Context, spec Spec) (ContainerID, error) {
	args := []string{"create", "--name", spec.Name}

	for k, v := range spec.Env {
		args = append(args, "-e", fmt.Sprintf("%s=%s", k, v))
	}

	for _, pb := range spec.Ports {
		args = append(args, "-p", fmt.Sprintf("%d:%d", pb.HostPort, pb.ContainerPort))
	}

	// Image and command come last
	args = append(args, spec.Image)
	args = append(args, spec.Cmd...)

	output, err := r.runner.Exec(ctx, r.bin, args...)
	if err != nil {
		return "", fmt.Errorf("create container %s: %w", spec.Name, err)
	}

	return ContainerID(strings.TrimSpace(output)), nil
}

// Start starts a previously created container.
func (r *CLIRuntime) Start(ctx context.Context, id ContainerID) error {
	if _, err := r.runner.Exec(ctx, r.bin, "start", string(id)); err != nil {
		return fmt.Errorf("start container: %w", err)
	}
	return nil
}

// Wait blocks until the container exits and returns the exit code.
func (r *CLIRuntime) Wait(ctx context.Context, id ContainerID) (int, error) {
	output, err := r.runner.Exec(ctx, r.bin, "wait", string(id))
	if err != nil {
		return -1, fmt.Errorf("wait for container: %w", err)
	}

	exitCode, err := strconv.Atoi(strings.TrimSpace(output))
	if err != nil {
		return -1, fmt.Errorf("parse exit code: %w", err)
	}

	return exitCode, nil
}

// Logs returns a stream of container logs (stdout and stderr combined).
// Streaming bypasses the Runner: pipes don't fit a string-returning seam.
func (r *CLIRuntime) Logs(ctx context.Context, id ContainerID, follow bool) (io.ReadCloser, error) {
	args := []string{"logs"}
	if follow {
		args = append(args, "-f")
	}
	args = append(args, string(id))

	cmd := exec.CommandContext(ctx, r.bin, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("get stdout pipe: %w", err)
	}
	// Share the pipe so stderr is not lost; engine startup failures only
	// surface there.
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start log streaming: %w", err)
	}

	// Return the pipe; caller is responsible for closing.
	// When ctx is canceled, the command is killed and the pipe closes.
	return stdout, nil
}

// Stop stops a running container with the specified grace timeout.
func (r *CLIRuntime) Stop(ctx context.Context, id ContainerID, timeout time.Duration) error {
	secs := strconv.Itoa(graceSeconds(timeout))
	if _, err := r.runner.Exec(ctx, r.bin, "stop", "-t", secs, string(id)); err != nil {
		return fmt.Errorf("stop container: %w", err)
	}
	return nil
}

// graceSeconds converts a grace period to whole seconds for `stop -t`,
// rounding up so a sub-second timeout is not truncated to an immediate
// SIGKILL.
func graceSeconds(timeout time.Duration) int {
	secs := int(timeout / time.Second)
	if timeout%time.Second != 0 {
		secs++
	}
	return secs
}

// Remove removes a stopped container.
func (r *CLIRuntime) Remove(ctx context.Context, id ContainerID) error {
	if _, err := r.runner.Exec(ctx, r.bin, "rm", string(id)); err != nil {
		if isNoSuchContainer(err) {
			return ErrNotFound
		}
		return fmt.Errorf("remove container: %w", err)
	}
	return nil
}

// inspectDetail is the subset of `inspect` output sqlbox reads.
type inspectDetail struct {
	ID     string `json:"Id"`
	Name   string `json:"Name"`
	Config struct {
		Image string `json:"Image"`
	} `json:"Config"`
	State struct {
		Status    string `json:"Status"`
		Running   bool   `json:"Running"`
		ExitCode  int    `json:"ExitCode"`
		StartedAt string `json:"StartedAt"`
	} `json:"State"`
}

// Inspect returns the observed state of a container.
func (r *CLIRuntime) Inspect(ctx context.Context, id ContainerID) (Info, error) {
	output, err := r.runner.Exec(ctx, r.bin, "inspect", string(id))
	if err != nil {
		if isNoSuchContainer(err) {
			return Info{}, ErrNotFound
		}
		return Info{}, fmt.Errorf("inspect container: %w", err)
	}

	var details []inspectDetail
	if err := json.Unmarshal([]byte(output), &details); err != nil {
		return Info{}, fmt.Errorf("parse inspect output: %w", err)
	}
	if len(details) == 0 {
		return Info{}, ErrNotFound
	}

	d := details[0]
	info := Info{
		ID:       ContainerID(d.ID),
		Name:     trimLeadingSlash(d.Name),
		Image:    d.Config.Image,
		Status:   d.State.Status,
		Running:  d.State.Running,
		ExitCode: d.State.ExitCode,
	}
	if t, err := time.Parse(time.RFC3339Nano, d.State.StartedAt); err == nil {
		info.StartedAt = t
	}
	return info, nil
}

// isNoSuchContainer matches both docker's and podman's not-found stderr.
func isNoSuchContainer(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such container") ||
		strings.Contains(msg, "no such object") ||
		strings.Contains(msg, "no container with name")
}

// Verify CLIRuntime implements Runtime interface
var _ Runtime = (*CLIRuntime)(nil)
