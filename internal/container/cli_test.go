package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fakeRunner records invocations and plays back canned responses.
type fakeRunner struct {
	calls  [][]string
	stdins []string
	output string
	err    error
}

func (f *fakeRunner) Exec(ctx context.Context, bin string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{bin}, args...))
	f.stdins = append(f.stdins, "")
	return f.output, f.err
}

func (f *fakeRunner) ExecWithStdin(ctx context.Context, bin string, stdin io.Reader, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{bin}, args...))
	data, _ := io.ReadAll(stdin)
	f.stdins = append(f.stdins, string(data))
	return f.output, f.err
}

func newFakeRuntime(output string, err error) (*CLIRuntime, *fakeRunner) {
	runner := &fakeRunner{output: output, err: err}
	rt := NewCLIRuntime("docker")
	rt.runner = runner
	return rt, runner
}

func TestCLIRuntime_ImplementsRuntimeInterface(t *testing.T) {
	var _ Runtime = (*CLIRuntime)(nil)
}

func TestCLIRuntime_CreateArgs(t *testing.T) {
	rt, runner := newFakeRuntime("abc123def456\n", nil)

	spec := Spec{
		Image: "mcr.microsoft.com/mssql/server:2019-latest",
		Name:  "sqlbox-dev",
		Env:   map[string]string{"ACCEPT_EULA": "Y"},
		Ports: []PortBinding{{HostPort: 1433, ContainerPort: 1433}},
		Cmd:   []string{"/opt/mssql/bin/sqlservr"},
	}

	id, err := rt.Create(context.Background(), spec)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id != "abc123def456" {
		t.Errorf("expected trimmed container ID, got %q", id)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(runner.calls))
	}
	call := strings.Join(runner.calls[0], " ")

	if !strings.HasPrefix(call, "docker create --name sqlbox-dev") {
		t.Errorf("unexpected command prefix: %s", call)
	}
	if !strings.Contains(call, "-e ACCEPT_EULA=Y") {
		t.Errorf("missing env flag: %s", call)
	}
	if !strings.Contains(call, "-p 1433:1433") {
		t.Errorf("missing port mapping: %s", call)
	}
	// Image and command come last
	if !strings.HasSuffix(call, "mcr.microsoft.com/mssql/server:2019-latest /opt/mssql/bin/sqlservr") {
		t.Errorf("image and command must come last: %s", call)
	}
}

func TestCLIRuntime_PortMappingMatchesSpec(t *testing.T) {
	rt, runner := newFakeRuntime("id\n", nil)

	_, err := rt.Create(context.Background(), Spec{
		Image: "alpine:latest",
		Name:  "x",
		Ports: []PortBinding{{HostPort: 14330, ContainerPort: 1433}},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	call := strings.Join(runner.calls[0], " ")
	if !strings.Contains(call, "-p 14330:1433") {
		t.Errorf("host:container mapping wrong: %s", call)
	}
}

func TestCLIRuntime_Wait(t *testing.T) {
	rt, _ := newFakeRuntime("42\n", nil)

	exitCode, err := rt.Wait(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if exitCode != 42 {
		t.Errorf("expected exit code 42, got %d", exitCode)
	}
}

func TestCLIRuntime_WaitBadOutput(t *testing.T) {
	rt, _ := newFakeRuntime("not-a-number\n", nil)

	if _, err := rt.Wait(context.Background(), "abc"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCLIRuntime_StopUsesSeconds(t *testing.T) {
	rt, runner := newFakeRuntime("", nil)

	if err := rt.Stop(context.Background(), "abc", 30*time.Second); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	call := strings.Join(runner.calls[0], " ")
	if call != "docker stop -t 30 abc" {
		t.Errorf("unexpected stop command: %s", call)
	}
}

func TestCLIRuntime_StopRoundsGraceUp(t *testing.T) {
	tests := []struct {
		timeout time.Duration
		want    string
	}{
		{500 * time.Millisecond, "1"},
		{1500 * time.Millisecond, "2"},
		{10 * time.Second, "10"},
		{0, "0"},
	}

	for _, tt := range tests {
		rt, runner := newFakeRuntime("", nil)
		if err := rt.Stop(context.Background(), "abc", tt.timeout); err != nil {
			t.Fatalf("Stop(%v) failed: %v", tt.timeout, err)
		}
		call := strings.Join(runner.calls[0], " ")
		if want := "docker stop -t " + tt.want + " abc"; call != want {
			t.Errorf("Stop(%v) = %q, want %q", tt.timeout, call, want)
		}
	}
}

// Logs bypasses the Runner seam, so exercise it against a real binary that
// writes to both streams.
func TestCLIRuntime_LogsCombinesStderr(t *testing.T) {
	script := filepath.Join(t.TempDir(), "fake-runtime")
	body := "#!/bin/sh\necho out-line\necho err-line >&2\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	rt := NewCLIRuntime(script)
	rc, err := rt.Logs(context.Background(), "abc", false)
	if err != nil {
		t.Fatalf("Logs failed: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read logs: %v", err)
	}
	if !strings.Contains(string(data), "out-line") {
		t.Errorf("stdout line missing from %q", data)
	}
	if !strings.Contains(string(data), "err-line") {
		t.Errorf("stderr line missing from %q", data)
	}
}

func TestCLIRuntime_BuildPassesDockerfileOnStdin(t *testing.T) {
	rt, runner := newFakeRuntime("", nil)

	spec := BuildSpec{
		Tag:        "sqlbox/mssql:dev",
		Dockerfile: "FROM alpine:latest\n",
	}
	if err := rt.Build(context.Background(), spec); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	call := strings.Join(runner.calls[0], " ")
	if call != "docker build -t sqlbox/mssql:dev -" {
		t.Errorf("unexpected build command: %s", call)
	}
	if runner.stdins[0] != "FROM alpine:latest\n" {
		t.Errorf("Dockerfile not passed on stdin: %q", runner.stdins[0])
	}
}

func TestCLIRuntime_RemoveNotFound(t *testing.T) {
	rt, _ := newFakeRuntime("", fmt.Errorf("docker rm failed: %w\nstderr: Error: No such container: abc", errors.New("exit status 1")))

	err := rt.Remove(context.Background(), "abc")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCLIRuntime_Inspect(t *testing.T) {
	output := `[
  {
    "Id": "abc123",
    "Name": "/sqlbox-dev",
    "Config": {"Image": "mcr.microsoft.com/mssql/server:2019-latest"},
    "State": {
      "Status": "running",
      "Running": true,
      "ExitCode": 0,
      "StartedAt": "2024-05-01T10:00:00.000000000Z"
    }
  }
]`
	rt, _ := newFakeRuntime(output, nil)

	info, err := rt.Inspect(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	if info.ID != "abc123" {
		t.Errorf("ID = %q", info.ID)
	}
	if info.Name != "sqlbox-dev" {
		t.Errorf("Name = %q, leading slash should be trimmed", info.Name)
	}
	if !info.Running || info.Status != "running" {
		t.Errorf("state not parsed: %+v", info)
	}
	if info.StartedAt.IsZero() {
		t.Error("StartedAt not parsed")
	}
}

func TestCLIRuntime_InspectEmptyResult(t *testing.T) {
	rt, _ := newFakeRuntime("[]", nil)

	_, err := rt.Inspect(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIsNoSuchContainer(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"Error: No such container: abc", true},
		{"Error: no such object: abc", true},
		{"no container with name or ID \"abc\" found", true},
		{"permission denied", false},
	}
	for _, tt := range tests {
		if got := isNoSuchContainer(errors.New(tt.msg)); got != tt.want {
			t.Errorf("isNoSuchContainer(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}
