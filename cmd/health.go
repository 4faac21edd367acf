// ABOUTME: Health command probing API reachability
// ABOUTME: Issues an unauthenticated call and reports connectivity

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check API connectivity",
	Long:  `Check connectivity to the partner management API.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runHealth(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health probe and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	a, err := newApp(w)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer a.close()

	res, err := a.client.Do(ctx, http.MethodGet, "/api/v1/common/health", nil)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	reachable := res.StatusCode < 500

	if IsJSONOutput() {
		out, _ := json.Marshal(map[string]any{
			"api":       a.config.APIBaseURL,
			"reachable": reachable,
			"status":    res.StatusCode,
		})
		fmt.Fprintln(w, string(out))
	} else {
		state := "ok"
		if !reachable {
			state = "unavailable"
		}
		fmt.Fprintf(w, "API:    %s\nStatus: %s (%d)\n", a.config.APIBaseURL, state, res.StatusCode)
	}

	if !reachable {
		return 2
	}
	return 0
}
