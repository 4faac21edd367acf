// ABOUTME: Console command launching the interactive TUI
// ABOUTME: Starts at the login screen or home depending on session state

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"partnerhub/internal/debuglog"
	"partnerhub/internal/tui"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Open the interactive console",
	Long:  `Open the full-screen console for managing restaurants, menus, and orders.`,
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runConsole(os.Stderr)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

// runConsole starts the TUI and returns exit code
func runConsole(errW *os.File) int {
	a, err := newApp(errW)
	if err != nil {
		fmt.Fprintf(errW, "Error: %v\n", err)
		return 2
	}
	defer a.close()

	// TUI owns the terminal; errors go to the debug log, not stdout
	if err := debuglog.Init(a.config.DataDir); err != nil {
		fmt.Fprintf(errW, "Warning: debug log unavailable: %v\n", err)
	}
	defer debuglog.Close()

	if err := tui.Run(a.client, a.store); err != nil {
		fmt.Fprintf(errW, "Error: %v\n", err)
		return 2
	}
	return 0
}
