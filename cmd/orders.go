// ABOUTME: Orders command listing orders for a restaurant
// ABOUTME: Human-readable table or JSON output, with optional status update

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

var ordersRestaurantID int64

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List orders for a restaurant",
	Long: `List orders placed against one of your restaurants.

Exit codes:
  0 - Listed
  1 - Session expired
  2 - Error (connectivity, server rejection, invalid input)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runOrders(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(ordersCmd)
	ordersCmd.Flags().Int64Var(&ordersRestaurantID, "restaurant", 0, "Restaurant ID (required)")
	ordersCmd.MarkFlagRequired("restaurant")
}

// runOrders lists orders and returns exit code
func runOrders(ctx context.Context, w io.Writer) int {
	if ordersRestaurantID <= 0 {
		fmt.Fprintln(w, "Error: --restaurant must be a positive ID")
		return 2
	}

	a, err := newApp(w)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer a.close()

	orders, res, err := a.client.Orders(ctx, ordersRestaurantID)
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
		out, _ := json.MarshalIndent(orders, "", "  ")
		fmt.Fprintln(w, string(out))
		return 0
	}

	fmt.Fprintln(w, formatOrdersHuman(orders))
	return 0
}

func formatOrdersHuman(orders []api.Order) string {
	if len(orders) == 0 {
		return "No orders."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-6s %-12s %-12s %10s  %s\n", "ID", "TABLE", "STATUS", "TOTAL", "CREATED"))
	for _, o := range orders {
		sb.WriteString(fmt.Sprintf("%-6d %-12s %-12s %10.2f  %s\n",
			o.ID, truncate(o.TableName, 12), o.Status, o.Total, o.CreatedAt))
	}
	return strings.TrimRight(sb.String(), "\n")
}
