package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_EnvSubstitution(t *testing.T) {
	// Setup env var
	os.Setenv("TEST_BACKEND_URL", "http://localhost:8000/health")
	defer os.Unsetenv("TEST_BACKEND_URL")

	// Create temp config file
	configContent := `
backend:
  kind: http
  url: ${TEST_BACKEND_URL}
`
	tmpFile, err := os.CreateTemp("", "config_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write([]byte(configContent)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	tmpFile.Close()

	// Load config
	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Backend.URL != "http://localhost:8000/health" {
		t.Errorf("Expected URL http://localhost:8000/health, got %s", cfg.Backend.URL)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("backend:\n  url: http://backend/health\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Monitor.ProbeInterval != 5*time.Second || cfg.Monitor.RetryInterval != 5*time.Second {
		t.Errorf("intervals = %v/%v, want 5s/5s", cfg.Monitor.ProbeInterval, cfg.Monitor.RetryInterval)
	}
	if cfg.Backend.Kind != KindHTTP {
		t.Errorf("backend kind = %q, want http", cfg.Backend.Kind)
	}
	if cfg.Settings.Source != SourceNone {
		t.Errorf("settings source = %q, want none", cfg.Settings.Source)
	}
}

func TestParse_Durations(t *testing.T) {
	content := `
monitor:
  probe_interval: 2s
  retry_interval: 1500ms
  probe_timeout: 1s
settings:
  source: static
  project_name: demo
`
	cfg, err := Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Monitor.ProbeInterval != 2*time.Second {
		t.Errorf("probe_interval = %v, want 2s", cfg.Monitor.ProbeInterval)
	}
	if cfg.Monitor.RetryInterval != 1500*time.Millisecond {
		t.Errorf("retry_interval = %v, want 1.5s", cfg.Monitor.RetryInterval)
	}
	if cfg.Settings.ProjectName != "demo" {
		t.Errorf("project_name = %q, want demo", cfg.Settings.ProjectName)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("monitor: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
