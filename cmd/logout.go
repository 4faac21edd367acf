// ABOUTME: Logout command clearing the local session
// ABOUTME: Tells the server best-effort, then clears session keys locally

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"partnerhub/internal/session"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the local session",
	Long: `Sign out of the partner service. The server is notified best-effort;
the local session is cleared either way. The device token survives logout.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogout(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// runLogout executes the logout and returns exit code
func runLogout(ctx context.Context, w io.Writer) int {
	a, err := newApp(w)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer a.close()

	state, err := session.StateOf(a.store)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if state == session.StateAnonymous {
		fmt.Fprintln(w, "Not signed in.")
		return 0
	}

	// Server rejection or unreachability does not block local teardown
	if _, err := a.client.Logout(ctx); err != nil {
		slog.Warn("server logout failed", "error", err)
		fmt.Fprintf(w, "Warning: could not notify server: %v\n", err)
	}

	if err := a.store.Clear(session.SessionKeys...); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintln(w, "Signed out.")
	return 0
}
