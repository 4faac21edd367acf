// ABOUTME: Session command showing the local login state
// ABOUTME: Decodes the stored access token for expiry display, without verification

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"partnerhub/internal/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show the current session state",
	Long:  `Display the local session state: whether you are signed in, as which user, and when the access token expires.`,
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runSession(os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

// sessionInfo is the JSON output shape
type sessionInfo struct {
	State       string `json:"state"`
	UserID      int64  `json:"user_id,omitempty"`
	TokenExpiry string `json:"token_expiry,omitempty"`
	DeviceToken string `json:"device_token,omitempty"`
}

// runSession reports the session state and returns exit code
func runSession(w io.Writer) int {
	a, err := newApp(w)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	defer a.close()

	info := sessionInfo{State: session.StateAnonymous.String()}

	sess, ok, err := session.Current(a.store)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if ok {
		info.State = session.StateAuthenticated.String()
		if id, found := session.UserID(sess.Profile); found {
			info.UserID = id
		}
		if exp, found := tokenExpiry(sess.AccessToken); found {
			info.TokenExpiry = exp.Format(time.RFC3339)
		}
	}
	if device, found, _ := a.store.Get(session.KeyDeviceToken); found {
		info.DeviceToken = device
	}

	if IsJSONOutput() {
		out, _ := json.MarshalIndent(info, "", "  ")
		fmt.Fprintln(w, string(out))
		return 0
	}

	fmt.Fprintln(w, formatSessionHuman(info))
	return 0
}

func formatSessionHuman(info sessionInfo) string {
	if info.State != session.StateAuthenticated.String() {
		return "Not signed in. Run 'partnerhub login' to sign in."
	}
	out := fmt.Sprintf("Signed in as user %d.", info.UserID)
	if info.TokenExpiry != "" {
		out += fmt.Sprintf("\nAccess token expires: %s", info.TokenExpiry)
	}
	if info.DeviceToken != "" {
		out += fmt.Sprintf("\nDevice token: %s", info.DeviceToken)
	}
	return out
}

// tokenExpiry reads the exp claim from the access token. Display only: the
// token is decoded, not verified, so a bad signature is caught by the server,
// not here.
func tokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
