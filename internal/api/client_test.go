// ABOUTME: Tests for the authenticated request gateway
// ABOUTME: Header attachment, transport failures, and store isolation via httptest

package api

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"partnerhub/internal/logger"
	"partnerhub/internal/session"
)

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	store, err := session.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDo_AttachesSessionHeaders(t *testing.T) {
	store := newTestStore(t)
	if err := store.Set(session.KeyAccessToken, "tok-123"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(session.KeyDeviceToken, "dev-456"); err != nil {
		t.Fatal(err)
	}

	var gotAuth, gotDevice string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotDevice = r.Header.Get("X-Device-Token")
		w.Write([]byte(`{"st":1}`))
	}))
	defer srv.Close()

	c := New(srv.URL, store, Options{})
	res, err := c.Do(context.Background(), http.MethodGet, "/api/v1/partner/restaurants", nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !res.OK {
		t.Error("expected OK result")
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
	if gotDevice != "dev-456" {
		t.Errorf("X-Device-Token = %q, want dev-456", gotDevice)
	}
}

func TestDo_LogsEveryCallAtDebug(t *testing.T) {
	store := newTestStore(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"token_not_valid"}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	prev := slog.Default()
	t.Setenv("LOG_LEVEL", "debug")
	logger.InitWriter(&buf)
	t.Cleanup(func() { slog.SetDefault(prev) })

	c := New(srv.URL, store, Options{})
	if _, err := c.Do(context.Background(), http.MethodGet, "/api/v1/partner/restaurants", nil); err != nil {
		t.Fatalf("Do: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "api call") || !strings.Contains(out, "/api/v1/partner/restaurants") {
		t.Errorf("log = %q, want a record per request", out)
	}
	if !strings.Contains(out, "unauthorized") {
		t.Errorf("log = %q, want the classification kind", out)
	}
}

func TestDo_EmptyStoreStillSends(t *testing.T) {
	store := newTestStore(t)

	var hadAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.Write([]byte(`{"st":1}`))
	}))
	defer srv.Close()

	c := New(srv.URL, store, Options{})
	res, err := c.Do(context.Background(), http.MethodPost, "/api/v1/common/login", []byte(`{"phone":"+15550000000"}`))
	if err != nil {
		t.Fatalf("unauthenticated call should go out, got error: %v", err)
	}
	if !res.OK {
		t.Error("expected OK result")
	}
	if hadAuth {
		t.Error("request with no session should carry no Authorization header")
	}
}

func TestDo_TimeoutIsTransportError(t *testing.T) {
	store := newTestStore(t)
	if err := store.Set(session.KeyAccessToken, "tok"); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"st":1}`))
	}))
	defer srv.Close()

	c := New(srv.URL, store, Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Do(ctx, http.MethodGet, "/x", nil)
	if err == nil {
		t.Fatal("expected a transport error")
	}
	if err.Error() != "request timed out" {
		t.Errorf("err = %q, want request timed out", err)
	}

	// The session is untouched by transport failures
	tok, ok, gerr := store.Get(session.KeyAccessToken)
	if gerr != nil || !ok || tok != "tok" {
		t.Errorf("access token should be untouched, got %q ok=%v err=%v", tok, ok, gerr)
	}
}

func TestDo_UnauthorizedDoesNotTouchStore(t *testing.T) {
	store := newTestStore(t)
	if err := store.Set(session.KeyAccessToken, "stale"); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		w.Write([]byte(`{"detail":"token not valid","code":"token_not_valid"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, store, Options{})
	res, err := c.Do(context.Background(), http.MethodGet, "/x", nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if res.Kind != KindUnauthorized {
		t.Errorf("Kind = %v, want unauthorized", res.Kind)
	}

	// Detection and teardown are separate: the gateway never clears keys
	tok, ok, _ := store.Get(session.KeyAccessToken)
	if !ok || tok != "stale" {
		t.Error("gateway must not mutate the session store")
	}
}

func TestVerifyOTP_ParsesSession(t *testing.T) {
	store := newTestStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/common/verify-otp" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"st":1,"data":{"access":"a-tok","refresh":"r-tok","user":{"user_id":42,"name":"Pat"}}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, store, Options{})
	sess, res, err := c.VerifyOTP(context.Background(), "+15551234567", "123456")
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if sess == nil {
		t.Fatalf("expected a session, result: %+v", res)
	}
	if sess.AccessToken != "a-tok" || sess.RefreshToken != "r-tok" {
		t.Errorf("tokens = %q/%q", sess.AccessToken, sess.RefreshToken)
	}
	if id, ok := session.UserID(sess.Profile); !ok || id != 42 {
		t.Errorf("user id = %d ok=%v, want 42", id, ok)
	}
}

func TestVerifyOTP_RejectionReturnsResult(t *testing.T) {
	store := newTestStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"st":3,"Msg":"wrong code"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, store, Options{})
	sess, res, err := c.VerifyOTP(context.Background(), "+15551234567", "000000")
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if sess != nil {
		t.Error("rejected verification should not yield a session")
	}
	if res == nil || res.Message != "wrong code" {
		t.Errorf("result = %+v, want wrong code message", res)
	}
}

func TestFetchMenuLookups_Parallel(t *testing.T) {
	store := newTestStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/partner/restaurants/7/categories":
			w.Write([]byte(`{"st":1,"data":[{"id":1,"name":"Starters"}]}`))
		case "/api/v1/partner/restaurants/7/sections":
			w.Write([]byte(`{"st":1,"data":[{"id":2,"name":"Terrace"}]}`))
		case "/api/v1/partner/restaurants/7/tables":
			w.Write([]byte(`{"st":1,"data":[{"id":3,"name":"T1"},{"id":4,"name":"T2"}]}`))
		case "/api/v1/common/units":
			w.Write([]byte(`{"st":1,"data":[{"id":5,"name":"portion"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(404)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, store, Options{})
	lookups, _, err := c.FetchMenuLookups(context.Background(), 7)
	if err != nil {
		t.Fatalf("FetchMenuLookups: %v", err)
	}
	if lookups == nil {
		t.Fatal("expected lookups")
	}
	if len(lookups.Categories) != 1 || lookups.Categories[0].Name != "Starters" {
		t.Errorf("categories = %+v", lookups.Categories)
	}
	if len(lookups.Tables) != 2 {
		t.Errorf("tables = %+v", lookups.Tables)
	}
	if len(lookups.Units) != 1 || lookups.Units[0].ID != 5 {
		t.Errorf("units = %+v", lookups.Units)
	}
}

func TestFetchMenuLookups_UnauthorizedWins(t *testing.T) {
	store := newTestStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/common/units" {
			// Embedded auth failure inside a 200, success-path detection
			w.Write([]byte(`{"code":"token_not_valid"}`))
			return
		}
		w.Write([]byte(`{"st":1,"data":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, store, Options{})
	lookups, res, err := c.FetchMenuLookups(context.Background(), 7)
	if err != nil {
		t.Fatalf("FetchMenuLookups: %v", err)
	}
	if lookups != nil {
		t.Error("auth failure should suppress partial lookups")
	}
	if res == nil || res.Kind != KindUnauthorized {
		t.Errorf("result = %+v, want unauthorized", res)
	}
}

func TestRestaurants_DecodesList(t *testing.T) {
	store := newTestStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"st":1,"data":[{"id":1,"name":"Blue Door","address":"1 Main St","is_active":true}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, store, Options{})
	list, _, err := c.Restaurants(context.Background())
	if err != nil {
		t.Fatalf("Restaurants: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}
	if list[0].Name != "Blue Door" || !list[0].IsActive {
		t.Errorf("restaurant = %+v", list[0])
	}
}

func TestUpdateRestaurant_PartialBody(t *testing.T) {
	store := newTestStore(t)

	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"st":1}`))
	}))
	defer srv.Close()

	c := New(srv.URL, store, Options{})
	_, err := c.UpdateRestaurant(context.Background(), 3, map[string]any{"name": "New Name"})
	if err != nil {
		t.Fatalf("UpdateRestaurant: %v", err)
	}
	if string(body) != `{"name":"New Name"}` {
		t.Errorf("body = %s, want only the changed field", body)
	}
}
