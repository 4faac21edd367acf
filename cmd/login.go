// ABOUTME: Login command running the OTP flow from the terminal
// ABOUTME: Requests a code, verifies it, and persists the session

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"partnerhub/internal/api"
	"partnerhub/internal/session"
)

var loginPhone string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with a one-time code",
	Long: `Sign in to the partner service. Requests a one-time code for your phone
number, prompts for the code, and stores the session locally.

Exit codes:
  0 - Signed in
  1 - Login rejected
  2 - Error (connectivity, invalid input)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginPhone, "phone", "", "Phone number (prompted when omitted)")
}

// runLogin executes the OTP flow and returns exit code
func runLogin(ctx context.Context, w io.Writer) int {
	a, err := newApp(w)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer a.close()

	// Device token identifies the install; created before the first call
	if _, err := session.EnsureDeviceToken(a.store); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	phone := strings.TrimSpace(loginPhone)
	if phone == "" {
		if err := promptPhone(&phone); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}
	if err := api.ValidatePhone(phone); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	res, err := a.client.RequestOTP(ctx, phone)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if !res.OK {
		msg := res.Message
		if msg == "" {
			msg = "could not request a code"
		}
		fmt.Fprintf(w, "Login rejected: %s\n", msg)
		return 1
	}
	fmt.Fprintln(w, "Code sent.")

	var code string
	if err := promptCode(&code); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	sess, vres, err := a.client.VerifyOTP(ctx, phone, strings.TrimSpace(code))
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if sess == nil {
		msg := "verification failed"
		if vres != nil && vres.Message != "" {
			msg = vres.Message
		}
		fmt.Fprintf(w, "Login rejected: %s\n", msg)
		return 1
	}

	if err := session.Save(a.store, *sess); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	a.invalidator.Rearm()

	if id, ok := session.UserID(sess.Profile); ok {
		fmt.Fprintf(w, "Signed in (user %d).\n", id)
	} else {
		fmt.Fprintln(w, "Signed in.")
	}
	return 0
}

func promptPhone(phone *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Phone number").
				Placeholder("+15551234567").
				Value(phone).
				Validate(api.ValidatePhone),
		),
	).Run()
}

func promptCode(code *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("One-time code").
				Value(code).
				Validate(api.ValidateCode),
		),
	).Run()
}
