// ABOUTME: Session lifecycle: persisted auth material and the login state machine
// ABOUTME: A session is authenticated only when token and profile are both present

package session

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// State is the per-app login state.
// Transitions: Anonymous -> Authenticating (login submit),
// Authenticating -> Authenticated (verified OTP),
// Authenticated -> Anonymous (logout or invalidation).
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is the authenticated state persisted across runs.
type Session struct {
	AccessToken  string
	RefreshToken string
	Profile      []byte // raw user JSON, carries at least a numeric user_id
}

// Save persists a freshly verified session. Written token-last so a crash
// mid-write never leaves a token without a profile.
func Save(st *Store, s Session) error {
	if s.AccessToken == "" {
		return fmt.Errorf("refusing to save session without access token")
	}
	if len(s.Profile) == 0 {
		return fmt.Errorf("refusing to save session without user profile")
	}
	if err := st.Set(KeyUserData, string(s.Profile)); err != nil {
		return err
	}
	if s.RefreshToken != "" {
		if err := st.Set(KeyRefreshToken, s.RefreshToken); err != nil {
			return err
		}
	}
	return st.Set(KeyAccessToken, s.AccessToken)
}

// Current loads the persisted session. ok is false in the logged-out state.
// A partial state (token without profile or vice versa) is treated as
// logged out rather than surfaced to callers.
func Current(st *Store) (*Session, bool, error) {
	access, haveAccess, err := st.Get(KeyAccessToken)
	if err != nil {
		return nil, false, err
	}
	profile, haveProfile, err := st.Get(KeyUserData)
	if err != nil {
		return nil, false, err
	}
	if !haveAccess || !haveProfile {
		return nil, false, nil
	}
	refresh, _, err := st.Get(KeyRefreshToken)
	if err != nil {
		return nil, false, err
	}
	return &Session{
		AccessToken:  access,
		RefreshToken: refresh,
		Profile:      []byte(profile),
	}, true, nil
}

// StateOf derives the persisted state. Authenticating never persists; it
// only exists while an OTP flow is in progress in the UI.
func StateOf(st *Store) (State, error) {
	_, ok, err := Current(st)
	if err != nil {
		return StateAnonymous, err
	}
	if ok {
		return StateAuthenticated, nil
	}
	return StateAnonymous, nil
}

// UserID extracts the numeric user_id from a profile blob.
func UserID(profile []byte) (int64, bool) {
	id := gjson.GetBytes(profile, "user_id")
	if !id.Exists() {
		return 0, false
	}
	return id.Int(), true
}

// EnsureDeviceToken returns the install token, generating and persisting one
// on first use. The token identifies the install, not the session, and is
// never cleared by invalidation.
func EnsureDeviceToken(st *Store) (string, error) {
	token, ok, err := st.Get(KeyDeviceToken)
	if err != nil {
		return "", err
	}
	if ok && token != "" {
		return token, nil
	}
	token = uuid.NewString()
	if err := st.Set(KeyDeviceToken, token); err != nil {
		return "", err
	}
	return token, nil
}
