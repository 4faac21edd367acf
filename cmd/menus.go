// ABOUTME: Menus command listing and editing a restaurant's menu items
// ABOUTME: Lists by default; --price/--rename update one item, --delete removes it

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

var (
	menusRestaurantID int64
	menusItemID       int64
	menusPrice        float64
	menusRename       string
	menusDelete       bool
)

var menusCmd = &cobra.Command{
	Use:   "menus",
	Short: "Manage a restaurant's menu items",
	Long: `List the menu items of a restaurant, or change one item.

Updates are partial: --price and --rename send only the fields given, the
rest of the item stays untouched. Creation is interactive; use the console.

Exit codes:
  0 - Done
  1 - Session expired
  2 - Error (connectivity, server rejection, invalid input)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runMenus(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(menusCmd)
	menusCmd.Flags().Int64Var(&menusRestaurantID, "restaurant", 0, "Restaurant ID (required for listing)")
	menusCmd.Flags().Int64Var(&menusItemID, "item", 0, "Menu item ID to change")
	menusCmd.Flags().Float64Var(&menusPrice, "price", 0, "New price for --item")
	menusCmd.Flags().StringVar(&menusRename, "rename", "", "New name for --item")
	menusCmd.Flags().BoolVar(&menusDelete, "delete", false, "Delete --item")
}

// runMenus dispatches on the modifier flags and returns exit code
func runMenus(ctx context.Context, w io.Writer) int {
	a, err := newApp(w)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer a.close()

	if menusItemID > 0 {
		switch {
		case menusDelete:
			return runMutation(w, a, func() (*api.Result, error) {
				return a.client.DeleteMenu(ctx, menusItemID)
			}, "Menu item deleted.")

		case menusPrice > 0 || menusRename != "":
			fields := map[string]any{}
			if menusPrice > 0 {
				fields["price"] = menusPrice
			}
			if name := strings.TrimSpace(menusRename); name != "" {
				fields["name"] = name
			}
			return runMutation(w, a, func() (*api.Result, error) {
				return a.client.UpdateMenu(ctx, menusItemID, fields)
			}, "Menu item updated.")

		default:
			fmt.Fprintln(w, "Error: --item needs --price, --rename, or --delete")
			return 2
		}
	}

	if menusRestaurantID <= 0 {
		fmt.Fprintln(w, "Error: --restaurant must be a positive ID")
		return 2
	}

	menus, res, err := a.client.Menus(ctx, menusRestaurantID)
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
		out, _ := json.MarshalIndent(menus, "", "  ")
		fmt.Fprintln(w, string(out))
		return 0
	}

	fmt.Fprintln(w, formatMenusHuman(menus))
	return 0
}

func formatMenusHuman(menus []api.Menu) string {
	if len(menus) == 0 {
		return "No menu items yet."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-6s %-30s %10s  %s\n", "ID", "NAME", "PRICE", "DESCRIPTION"))
	for _, m := range menus {
		sb.WriteString(fmt.Sprintf("%-6d %-30s %10.2f  %s\n",
			m.ID, truncate(m.Name, 30), m.Price, truncate(m.Description, 40)))
	}
	return strings.TrimRight(sb.String(), "\n")
}
