// ABOUTME: Tests for the root console model
// ABOUTME: Screen routing, unauthorized teardown, and stale-response discarding

package tui

import (
	"errors"
	"testing"
	"time"

	"partnerhub/internal/api"
	"partnerhub/internal/session"
)

func newTestApp(t *testing.T) (*App, *session.Store) {
	t.Helper()
	store, err := session.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	client := api.New("http://localhost:1", store, api.Options{})
	return New(client, store), store
}

func loggedInApp(t *testing.T) (*App, *session.Store) {
	t.Helper()
	store, err := session.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	if err := session.Save(store, session.Session{
		AccessToken:  "tok",
		RefreshToken: "ref",
		Profile:      []byte(`{"user_id":7}`),
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(session.KeyDeviceToken, "device-1"); err != nil {
		t.Fatal(err)
	}
	client := api.New("http://localhost:1", store, api.Options{})
	return New(client, store), store
}

func TestNew_StartsOnLoginWithoutSession(t *testing.T) {
	a, _ := newTestApp(t)
	if a.screen != ScreenLogin {
		t.Errorf("screen = %v, want login", a.screen)
	}
	if a.loginScreen == nil {
		t.Error("login screen should be constructed")
	}
}

func TestNew_StartsOnHomeWithSession(t *testing.T) {
	a, _ := loggedInApp(t)
	if a.screen != ScreenHome {
		t.Errorf("screen = %v, want home", a.screen)
	}
}

func TestUpdate_UnauthorizedResetsToLogin(t *testing.T) {
	a, store := loggedInApp(t)

	a.Update(restaurantsLoadedMsg{
		gen: a.gen,
		res: &api.Result{StatusCode: 401, Kind: api.KindUnauthorized},
	})

	if a.screen != ScreenLogin {
		t.Errorf("screen = %v, want login after unauthorized", a.screen)
	}
	if a.errMsg != "" {
		t.Errorf("errMsg = %q, want empty: the redirect is the signal", a.errMsg)
	}
	if a.homeScreen != nil || a.orderScreen != nil || a.menuScreen != nil {
		t.Error("child screens should be discarded")
	}
	if _, ok, _ := store.Get(session.KeyAccessToken); ok {
		t.Error("access token should be cleared")
	}
	if v, ok, _ := store.Get(session.KeyDeviceToken); !ok || v != "device-1" {
		t.Error("device token should survive the teardown")
	}
}

func TestUpdate_RepeatedUnauthorizedTearsDownOnce(t *testing.T) {
	a, store := loggedInApp(t)

	msg := restaurantsLoadedMsg{
		gen: a.gen,
		res: &api.Result{StatusCode: 401, Kind: api.KindUnauthorized},
	}
	a.Update(msg)

	// Reseed and replay a second unauthorized result from another in-flight
	// call. The invalidator is spent, so the store must stay as-is.
	if err := store.Set(session.KeyAccessToken, "tok2"); err != nil {
		t.Fatal(err)
	}
	a.Update(ordersLoadedMsg{
		gen: a.gen,
		res: &api.Result{StatusCode: 401, Kind: api.KindUnauthorized},
	})

	if v, ok, _ := store.Get(session.KeyAccessToken); !ok || v != "tok2" {
		t.Error("second unauthorized result should not clear the store again")
	}
}

func TestUpdate_StaleResponseDiscarded(t *testing.T) {
	a, _ := loggedInApp(t)

	stale := a.gen
	a.gen++ // user navigated away before the response arrived

	a.Update(restaurantsLoadedMsg{
		gen:         stale,
		res:         &api.Result{StatusCode: 200, OK: true},
		restaurants: []api.Restaurant{{ID: 1, Name: "Stale"}},
	})

	if a.homeScreen != nil {
		t.Error("stale response should not mount a screen")
	}
	if a.errMsg != "" {
		t.Errorf("errMsg = %q, want empty", a.errMsg)
	}
}

func TestUpdate_StaleUnauthorizedStillDiscarded(t *testing.T) {
	a, store := loggedInApp(t)

	stale := a.gen
	a.gen++

	a.Update(restaurantsLoadedMsg{
		gen: stale,
		res: &api.Result{StatusCode: 401, Kind: api.KindUnauthorized},
	})

	if _, ok, _ := store.Get(session.KeyAccessToken); !ok {
		t.Error("stale unauthorized result should not touch the store")
	}
	if a.screen != ScreenHome {
		t.Errorf("screen = %v, want home", a.screen)
	}
}

func TestUpdate_NetworkErrorSurfacesInPlace(t *testing.T) {
	a, store := loggedInApp(t)

	a.Update(restaurantsLoadedMsg{
		gen: a.gen,
		err: errors.New("cannot reach http://localhost:1"),
	})

	if a.screen != ScreenHome {
		t.Errorf("screen = %v, want home: network errors do not log out", a.screen)
	}
	if a.errMsg == "" {
		t.Error("error message should surface")
	}
	if _, ok, _ := store.Get(session.KeyAccessToken); !ok {
		t.Error("session should be untouched on a network error")
	}
}

func TestUpdate_ServerErrorShowsMessageKeepsSession(t *testing.T) {
	a, store := loggedInApp(t)

	a.Update(restaurantsLoadedMsg{
		gen: a.gen,
		res: &api.Result{StatusCode: 500, Kind: api.KindServer, Message: "internal error"},
	})

	if a.errMsg != "internal error" {
		t.Errorf("errMsg = %q, want %q", a.errMsg, "internal error")
	}
	if _, ok, _ := store.Get(session.KeyAccessToken); !ok {
		t.Error("session should survive a server error")
	}
}

func TestUpdate_RestaurantsLoadedMountsHome(t *testing.T) {
	a, _ := loggedInApp(t)

	a.Update(restaurantsLoadedMsg{
		gen:         a.gen,
		res:         &api.Result{StatusCode: 200, OK: true},
		restaurants: []api.Restaurant{{ID: 1, Name: "Trattoria"}},
	})

	if a.homeScreen == nil {
		t.Fatal("home screen should be mounted")
	}
	if a.loading {
		t.Error("loading should be cleared")
	}
}

func timeNowMinus(secs int) time.Time {
	return time.Now().Add(-time.Duration(secs) * time.Second)
}

func TestFormatTimeSince(t *testing.T) {
	// Boundary formatting only; "just now" window is under five seconds
	got := formatTimeSince(timeNowMinus(0))
	if got != "just now" {
		t.Errorf("formatTimeSince(now) = %q, want %q", got, "just now")
	}
	if got := formatTimeSince(timeNowMinus(90)); got != "1m ago" {
		t.Errorf("formatTimeSince(-90s) = %q, want %q", got, "1m ago")
	}
	if got := formatTimeSince(timeNowMinus(2 * 3600)); got != "2h ago" {
		t.Errorf("formatTimeSince(-2h) = %q, want %q", got, "2h ago")
	}
	if got := formatTimeSince(timeNowMinus(26 * 3600)); got != "1d ago" {
		t.Errorf("formatTimeSince(-26h) = %q, want %q", got, "1d ago")
	}
}
