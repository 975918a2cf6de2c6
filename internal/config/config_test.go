package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig creates a .sqlbox.yaml with the given content for testing
func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, ".sqlbox.yaml"), []byte(content), 0644)
	if err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Name != DefaultName {
		t.Errorf("expected Name to be %q, got %q", DefaultName, cfg.Name)
	}
	if cfg.Engine != DefaultEngine {
		t.Errorf("expected Engine to be %q, got %q", DefaultEngine, cfg.Engine)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("expected Port to be %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.StopTimeout != DefaultStopTimeout {
		t.Errorf("expected StopTimeout to be %q, got %q", DefaultStopTimeout, cfg.StopTimeout)
	}
	if cfg.Build.Tag != DefaultBuildTag {
		t.Errorf("expected Build.Tag to be %q, got %q", DefaultBuildTag, cfg.Build.Tag)
	}
	if cfg.Wait.Timeout != DefaultWaitTimeout {
		t.Errorf("expected Wait.Timeout to be %q, got %q", DefaultWaitTimeout, cfg.Wait.Timeout)
	}
}

func TestLoadConfig_FileValues(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
name: analytics-db
engine: edge
port: 14330
sa_password: "Str0ng!Passw0rd"
stop_timeout: 30s
`)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Name != "analytics-db" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Engine != "edge" {
		t.Errorf("Engine = %q", cfg.Engine)
	}
	if cfg.Port != 14330 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.SAPassword != "Str0ng!Passw0rd" {
		t.Errorf("SAPassword not loaded")
	}
	if cfg.StopTimeout != "30s" {
		t.Errorf("StopTimeout = %q", cfg.StopTimeout)
	}
	// Unset fields keep defaults
	if cfg.Wait.Timeout != DefaultWaitTimeout {
		t.Errorf("Wait.Timeout = %q, want default", cfg.Wait.Timeout)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "name: from-file\nport: 1500\n")

	t.Setenv("SQLBOX_NAME", "from-env")
	t.Setenv("SQLBOX_PORT", "1600")
	t.Setenv("SQLBOX_SA_PASSWORD", "Str0ng!Passw0rd")
	t.Setenv("SQLBOX_ENGINE", "edge")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Name != "from-env" {
		t.Errorf("env should override file: Name = %q", cfg.Name)
	}
	if cfg.Port != 1600 {
		t.Errorf("env should override file: Port = %d", cfg.Port)
	}
	if cfg.SAPassword != "Str0ng!Passw0rd" {
		t.Errorf("SQLBOX_SA_PASSWORD not applied")
	}
	if cfg.Engine != "edge" {
		t.Errorf("SQLBOX_ENGINE not applied")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "name: [unclosed\n")

	if _, err := LoadConfig(dir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadConfig_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"bad port low", "port: 0\n", "config.port"},
		{"bad port high", "port: 70000\n", "config.port"},
		{"bad engine", "engine: oracle\n", "config.engine"},
		{"bad image", "image: \"UPPER/Case:tag\"\n", "config.image"},
		{"bad runtime", "runtime: containerd\n", "config.runtime"},
		{"weak password", "sa_password: short\n", "config.sa_password"},
		{"bad stop timeout", "stop_timeout: soon\n", "config.stop_timeout"},
		{"bad wait timeout", "wait:\n  timeout: never\n", "config.wait.timeout"},
		{"empty name", "name: \"\"\n", "config.name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := LoadConfig(dir)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %v should mention %s", err, tt.field)
			}
		})
	}
}

func TestLoadConfig_CollectsAllViolations(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "port: 0\nengine: oracle\n")

	_, err := LoadConfig(dir)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "config.port") || !strings.Contains(err.Error(), "config.engine") {
		t.Errorf("expected both violations reported, got: %v", err)
	}
}

func TestRequireCredentials(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.RequireCredentials(); err == nil {
		t.Error("expected error with no password set")
	}

	cfg.SAPassword = "Str0ng!Passw0rd"
	if err := cfg.RequireCredentials(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDurationAccessors(t *testing.T) {
	cfg := DefaultConfig()

	if _, err := cfg.WaitTimeoutDuration(); err != nil {
		t.Errorf("default wait timeout should parse: %v", err)
	}
	if _, err := cfg.WaitIntervalDuration(); err != nil {
		t.Errorf("default wait interval should parse: %v", err)
	}
	if _, err := cfg.StopTimeoutDuration(); err != nil {
		t.Errorf("default stop timeout should parse: %v", err)
	}
}
