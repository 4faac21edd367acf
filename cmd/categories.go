// ABOUTME: Categories command managing a restaurant's menu categories
// ABOUTME: Lists by default; --add, --rename/--to, and --delete change them

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
	categoriesRestaurantID int64
	categoriesAdd          string
	categoriesRename       int64
	categoriesTo           string
	categoriesDelete       int64
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage a restaurant's menu categories",
	Long: `List, add, rename, or delete menu categories of a restaurant.

Without a modifier flag the categories are listed.

Exit codes:
  0 - Done
  1 - Session expired
  2 - Error (connectivity, server rejection, invalid input)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCategories(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.Flags().Int64Var(&categoriesRestaurantID, "restaurant", 0, "Restaurant ID (required)")
	categoriesCmd.Flags().StringVar(&categoriesAdd, "add", "", "Add a category with this name")
	categoriesCmd.Flags().Int64Var(&categoriesRename, "rename", 0, "Category ID to rename (use with --to)")
	categoriesCmd.Flags().StringVar(&categoriesTo, "to", "", "New name for --rename")
	categoriesCmd.Flags().Int64Var(&categoriesDelete, "delete", 0, "Category ID to delete")
	categoriesCmd.MarkFlagRequired("restaurant")
}

// runCategories dispatches on the modifier flags and returns exit code
func runCategories(ctx context.Context, w io.Writer) int {
	if categoriesRestaurantID <= 0 {
		fmt.Fprintln(w, "Error: --restaurant must be a positive ID")
		return 2
	}

	a, err := newApp(w)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer a.close()

	switch {
	case categoriesAdd != "":
		return runMutation(w, a, func() (*api.Result, error) {
			return a.client.CreateCategory(ctx, categoriesRestaurantID, strings.TrimSpace(categoriesAdd))
		}, "Category added.")

	case categoriesRename > 0:
		if strings.TrimSpace(categoriesTo) == "" {
			fmt.Fprintln(w, "Error: --rename needs --to with the new name")
			return 2
		}
		return runMutation(w, a, func() (*api.Result, error) {
			return a.client.RenameCategory(ctx, categoriesRename, strings.TrimSpace(categoriesTo))
		}, "Category renamed.")

	case categoriesDelete > 0:
		return runMutation(w, a, func() (*api.Result, error) {
			return a.client.DeleteCategory(ctx, categoriesDelete)
		}, "Category deleted.")
	}

	categories, res, err := a.client.Categories(ctx, categoriesRestaurantID)
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
		out, _ := json.MarshalIndent(categories, "", "  ")
		fmt.Fprintln(w, string(out))
		return 0
	}

	fmt.Fprintln(w, formatLookupsHuman("categories", categories))
	return 0
}

// runMutation runs one write call and reports the outcome with the shared
// exit-code mapping.
func runMutation(w io.Writer, a *app, call func() (*api.Result, error), done string) int {
	res, err := call()
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
	fmt.Fprintln(w, done)
	return 0
}

func formatLookupsHuman(what string, lookups []api.Lookup) string {
	if len(lookups) == 0 {
		return "No " + what + " yet."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-6s %s\n", "ID", "NAME"))
	for _, l := range lookups {
		sb.WriteString(fmt.Sprintf("%-6d %s\n", l.ID, l.Name))
	}
	return strings.TrimRight(sb.String(), "\n")
}
