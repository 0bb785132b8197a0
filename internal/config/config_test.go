package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Concurrency != 8 {
		t.Fatalf("expected default concurrency 8, got %d", cfg.Concurrency)
	}
	if cfg.Timeout.Std() != 8*time.Second {
		t.Fatalf("expected default timeout 8s, got %s", cfg.Timeout.Std())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json"), false); err == nil {
		t.Fatalf("expected error for explicit missing config")
	}
}

func TestLoadParsesDurationsAndNormalizes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		timeout time.Duration
	}{
		{name: "duration string", body: `{"timeout":"2s"}`, timeout: 2 * time.Second},
		{name: "milliseconds", body: `{"timeout":1500}`, timeout: 1500 * time.Millisecond},
		{name: "null keeps default", body: `{"timeout":null}`, timeout: 8 * time.Second},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			cfg, err := Load(path, false)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Timeout.Std() != tc.timeout {
				t.Fatalf("expected %s, got %s", tc.timeout, cfg.Timeout.Std())
			}
		})
	}

	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"extensions":["MD"," .html ",""],"ignore_dirs":[" tmp ",""]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Extensions) != 2 || cfg.Extensions[0] != ".md" || cfg.Extensions[1] != ".html" {
		t.Fatalf("unexpected extensions: %v", cfg.Extensions)
	}
	if len(cfg.IgnoreDirs) != 1 || cfg.IgnoreDirs[0] != "tmp" {
		t.Fatalf("unexpected ignore dirs: %v", cfg.IgnoreDirs)
	}
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"timeout":true}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path, false); err == nil {
		t.Fatalf("expected invalid config error")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("IMGPROBE_TIMEOUT", "250")
	t.Setenv("IMGPROBE_CONCURRENCY", "3")
	t.Setenv("IMGPROBE_IGNORE", "a, b")
	t.Setenv("IMGPROBE_USER_AGENT", "probe-test")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Timeout.Std() != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %s", cfg.Timeout.Std())
	}
	if cfg.Concurrency != 3 {
		t.Fatalf("expected concurrency 3, got %d", cfg.Concurrency)
	}
	if len(cfg.IgnoreDirs) != 2 || cfg.IgnoreDirs[1] != "b" {
		t.Fatalf("unexpected ignore dirs: %v", cfg.IgnoreDirs)
	}
	if cfg.UserAgent != "probe-test" {
		t.Fatalf("unexpected user agent %q", cfg.UserAgent)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Concurrency = -1
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConcurrency) {
		t.Fatalf("expected ErrInvalidConcurrency, got %v", err)
	}

	cfg = Default()
	cfg.Timeout = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimeout) {
		t.Fatalf("expected ErrInvalidTimeout, got %v", err)
	}

	cfg = Default()
	cfg.Concurrency = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unbounded concurrency should be valid: %v", err)
	}
}
