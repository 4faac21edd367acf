// ABOUTME: Configuration loader for the partnerhub CLI
// ABOUTME: Loads settings from environment variables and optional .env file

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// API
	APIBaseURL     string
	RequestTimeout int // seconds, for plain JSON calls (default 10)
	UploadTimeout  int // seconds, for multipart uploads (default 60)

	// Local state
	DataDir string // holds session.db and debug.log

	// Headers
	DeviceTokenHeader string // header name carrying the install token
}

// Load builds configuration from the environment.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	// Missing .env is the normal case, not an error
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:        ensureScheme(getEnv("PARTNERHUB_API_URL", "https://api.partnerhub.app")),
		RequestTimeout:    getEnvInt("PARTNERHUB_REQUEST_TIMEOUT", 10),
		UploadTimeout:     getEnvInt("PARTNERHUB_UPLOAD_TIMEOUT", 60),
		DataDir:           getEnv("PARTNERHUB_DATA_DIR", DefaultDataDir()),
		DeviceTokenHeader: getEnv("PARTNERHUB_DEVICE_HEADER", "X-Device-Token"),
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("PARTNERHUB_API_URL is required")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("PARTNERHUB_REQUEST_TIMEOUT must be positive, got %d", cfg.RequestTimeout)
	}
	if cfg.UploadTimeout <= 0 {
		return nil, fmt.Errorf("PARTNERHUB_UPLOAD_TIMEOUT must be positive, got %d", cfg.UploadTimeout)
	}
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("cannot determine data directory; set PARTNERHUB_DATA_DIR")
	}

	return cfg, nil
}

// DefaultDataDir returns the default state directory following XDG spec
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "partnerhub")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "partnerhub")
}

// ensureScheme adds https:// when the URL has no scheme
func ensureScheme(u string) string {
	if u == "" {
		return u
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return strings.TrimRight(u, "/")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
