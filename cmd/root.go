// ABOUTME: Root command for the partnerhub CLI
// ABOUTME: Handles global flags and shared wiring of store, gateway, and invalidator

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"partnerhub/internal/api"
	"partnerhub/internal/config"
	"partnerhub/internal/logger"
	"partnerhub/internal/session"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "partnerhub",
	Short: "CLI for the restaurant-partner management service",
	Long: `partnerhub is a terminal client for the restaurant-partner management service.

It signs in with an OTP, keeps the session on disk, and manages restaurants,
menus, tables, and orders from the command line or the interactive console.

Environment Variables:
  PARTNERHUB_API_URL   API base URL (default: https://api.partnerhub.app)
  PARTNERHUB_DATA_DIR  Local state directory (default: ~/.config/partnerhub)`,
}

// Execute runs the root command
func Execute() error {
	logger.Init()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (overrides PARTNERHUB_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// app bundles the pieces every command needs.
type app struct {
	config      *config.Config
	store       *session.Store
	client      *api.Client
	invalidator *session.Invalidator
}

// newApp loads config and opens the session store and gateway.
// Precedence for the API URL: flag > env > default.
func newApp(w io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		return nil, err
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		slog.Error("data dir unavailable", "dir", cfg.DataDir, "error", err)
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	store, err := session.Open(cfg.DataDir)
	if err != nil {
		slog.Error("session store open failed", "dir", cfg.DataDir, "error", err)
		return nil, err
	}
	slog.Debug("session store opened", "dir", cfg.DataDir, "api", cfg.APIBaseURL)

	client := api.New(cfg.APIBaseURL, store, api.Options{
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		UploadTimeout:  time.Duration(cfg.UploadTimeout) * time.Second,
		DeviceHeader:   cfg.DeviceTokenHeader,
	})

	return &app{
		config:      cfg,
		store:       store,
		client:      client,
		invalidator: session.NewInvalidator(store, &messageNavigator{w: w}),
	}, nil
}

func (a *app) close() {
	a.store.Close()
}

// messageNavigator is the command-line stand-in for a navigation stack:
// resetting to the login screen means telling the user to log in again.
type messageNavigator struct {
	w io.Writer
}

func (n *messageNavigator) ResetToLogin() {
	fmt.Fprintln(n.w, "Session expired. Run 'partnerhub login' to sign in again.")
}

// checkResult applies the shared failure handling: an unauthorized result
// tears the session down exactly once; other failures surface the server's
// message verbatim. Returns true when the caller may use the result payload.
func (a *app) checkResult(w io.Writer, res *api.Result) bool {
	if res == nil {
		return false
	}
	if res.Kind == api.KindUnauthorized {
		a.invalidator.Invalidate()
		return false
	}
	if !res.OK {
		msg := res.Message
		if msg == "" {
			msg = "request failed"
		}
		fmt.Fprintf(w, "Error: %s\n", msg)
		return false
	}
	return true
}
