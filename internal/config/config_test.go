// ABOUTME: Tests for configuration loading
// ABOUTME: Covers defaults, environment overrides, and URL normalization

package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PARTNERHUB_API_URL", "")
	t.Setenv("PARTNERHUB_REQUEST_TIMEOUT", "")
	t.Setenv("PARTNERHUB_UPLOAD_TIMEOUT", "")
	t.Setenv("PARTNERHUB_DATA_DIR", "")
	t.Setenv("PARTNERHUB_DEVICE_HEADER", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.APIBaseURL != "https://api.partnerhub.app" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 10 {
		t.Errorf("RequestTimeout = %d, want 10", cfg.RequestTimeout)
	}
	if cfg.UploadTimeout != 60 {
		t.Errorf("UploadTimeout = %d, want 60", cfg.UploadTimeout)
	}
	if cfg.DeviceTokenHeader != "X-Device-Token" {
		t.Errorf("DeviceTokenHeader = %q", cfg.DeviceTokenHeader)
	}
	if filepath.Base(cfg.DataDir) != "partnerhub" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PARTNERHUB_API_URL", "http://localhost:8080/")
	t.Setenv("PARTNERHUB_REQUEST_TIMEOUT", "5")
	t.Setenv("PARTNERHUB_UPLOAD_TIMEOUT", "120")
	t.Setenv("PARTNERHUB_DATA_DIR", dir)
	t.Setenv("PARTNERHUB_DEVICE_HEADER", "X-Push-Token")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.APIBaseURL != "http://localhost:8080" {
		t.Errorf("APIBaseURL = %q, want trailing slash trimmed", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 5 || cfg.UploadTimeout != 120 {
		t.Errorf("timeouts = %d/%d", cfg.RequestTimeout, cfg.UploadTimeout)
	}
	if cfg.DataDir != dir {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.DeviceTokenHeader != "X-Push-Token" {
		t.Errorf("DeviceTokenHeader = %q", cfg.DeviceTokenHeader)
	}
}

func TestLoad_RejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("PARTNERHUB_DATA_DIR", t.TempDir())
	t.Setenv("PARTNERHUB_REQUEST_TIMEOUT", "-1")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "PARTNERHUB_REQUEST_TIMEOUT") {
		t.Errorf("err = %v, want timeout rejection", err)
	}
}

func TestEnsureScheme(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"api.partnerhub.app", "https://api.partnerhub.app"},
		{"http://localhost:8080", "http://localhost:8080"},
		{"https://api.partnerhub.app/", "https://api.partnerhub.app"},
		{"api.partnerhub.app//", "https://api.partnerhub.app"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ensureScheme(tt.in); got != tt.want {
			t.Errorf("ensureScheme(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
