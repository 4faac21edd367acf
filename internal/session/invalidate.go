// ABOUTME: Session invalidation handler for server-rejected tokens
// ABOUTME: Atomically clears session keys and resets navigation to the login screen

package session

import (
	"sync/atomic"

	"partnerhub/internal/debuglog"
)

// Navigator resets the surrounding UI to its entry screen, discarding any
// back stack so no authenticated screen can be reached again.
type Navigator interface {
	ResetToLogin()
}

// Invalidator tears down the session in response to an unauthorized signal.
// Multiple screens can trigger it concurrently without coordination; the
// guard ensures exactly one teardown and navigation reset per event.
type Invalidator struct {
	store *Store
	nav   Navigator
	busy  atomic.Bool
}

func NewInvalidator(store *Store, nav Navigator) *Invalidator {
	return &Invalidator{store: store, nav: nav}
}

// Invalidate clears the session keys and resets navigation to login.
// Returns true when this call performed the teardown, false when another
// invocation already did. A storage failure is logged and the navigation
// reset still happens: failing open toward logout, never toward leaving a
// stale token behind silently.
func (i *Invalidator) Invalidate() bool {
	if !i.busy.CompareAndSwap(false, true) {
		return false
	}

	if err := i.store.Clear(SessionKeys...); err != nil {
		debuglog.Error("session clear", err)
	}
	i.nav.ResetToLogin()
	return true
}

// Rearm makes the invalidator ready for the next session. Called after a
// successful login; until then repeat unauthorized responses stay no-ops.
func (i *Invalidator) Rearm() {
	i.busy.Store(false)
}

// Armed reports whether a teardown has already run for the current event.
func (i *Invalidator) Armed() bool {
	return !i.busy.Load()
}
