// ABOUTME: Restaurants command listing the partner's restaurants
// ABOUTME: Human-readable table or JSON output

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"partnerhub/internal/api"
)

var restaurantsCmd = &cobra.Command{
	Use:   "restaurants",
	Short: "List your restaurants",
	Long: `List the restaurants registered to your partner account.

Exit codes:
  0 - Listed
  1 - Session expired
  2 - Error (connectivity, server rejection)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRestaurants(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(restaurantsCmd)
}

// runRestaurants lists restaurants and returns exit code
func runRestaurants(ctx context.Context, w io.Writer) int {
	a, err := newApp(w)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer a.close()

	restaurants, res, err := a.client.Restaurants(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if res.Kind == api.KindUnauthorized {
		a.invalidator.Invalidate()
		return 1
	}
	if !a.checkResult(w, res) {
		return 2
	}

	if IsJSONOutput() {
		out, _ := json.MarshalIndent(restaurants, "", "  ")
		fmt.Fprintln(w, string(out))
		return 0
	}

	fmt.Fprintln(w, formatRestaurantsHuman(restaurants))
	return 0
}

func formatRestaurantsHuman(restaurants []api.Restaurant) string {
	if len(restaurants) == 0 {
		return "No restaurants yet."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-6s %-30s %-12s %s\n", "ID", "NAME", "STATUS", "ADDRESS"))
	for _, r := range restaurants {
		status := "inactive"
		if r.IsActive {
			status = "active"
		}
		sb.WriteString(fmt.Sprintf("%-6d %-30s %-12s %s\n", r.ID, truncate(r.Name, 30), status, r.Address))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
