// ABOUTME: Authenticated request gateway for the partner management API
// ABOUTME: Attaches session material to every call and classifies every response

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"partnerhub/internal/session"
)

const (
	basePartner = "/api/v1/partner"
	baseCommon  = "/api/v1/common"

	defaultRequestTimeout = 10 * time.Second
	defaultUploadTimeout  = 60 * time.Second
	defaultDeviceHeader   = "X-Device-Token"
)

// Options tune the gateway. Zero values fall back to defaults.
type Options struct {
	RequestTimeout time.Duration // plain JSON calls
	UploadTimeout  time.Duration // multipart uploads
	DeviceHeader   string
}

// Client is the gateway through which every API call passes. It reads the
// session store on each request and never writes to it; teardown on an
// unauthorized response belongs to the invalidation handler.
type Client struct {
	baseURL      string
	store        *session.Store
	deviceHeader string
	httpClient   *http.Client
	uploadClient *http.Client
}

// New creates a gateway against baseURL, reading tokens from store.
func New(baseURL string, store *session.Store, opts Options) *Client {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = defaultUploadTimeout
	}
	if opts.DeviceHeader == "" {
		opts.DeviceHeader = defaultDeviceHeader
	}
	return &Client{
		baseURL:      baseURL,
		store:        store,
		deviceHeader: opts.DeviceHeader,
		httpClient:   &http.Client{Timeout: opts.RequestTimeout},
		uploadClient: &http.Client{Timeout: opts.UploadTimeout},
	}
}

// Do issues one request with session material attached and returns the
// normalized result. A nil error with a non-OK result is a classified API
// failure; a non-nil error is a transport (network) failure and the session
// is guaranteed untouched either way.
func (c *Client) Do(ctx context.Context, method, path string, body []byte) (*Result, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	return c.send(c.httpClient, req)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.attachSession(req); err != nil {
		return nil, err
	}
	return req, nil
}

// attachSession adds the bearer and device-token headers when present.
// A missing access token is tolerated rather than blocking the call:
// login and OTP endpoints go out unauthenticated.
func (c *Client) attachSession(req *http.Request) error {
	access, ok, err := c.store.Get(session.KeyAccessToken)
	if err != nil {
		return fmt.Errorf("read access token: %w", err)
	}
	if ok && access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	device, ok, err := c.store.Get(session.KeyDeviceToken)
	if err != nil {
		return fmt.Errorf("read device token: %w", err)
	}
	if ok && device != "" {
		req.Header.Set(c.deviceHeader, device)
	}
	return nil
}

func (c *Client) send(hc *http.Client, req *http.Request) (*Result, error) {
	resp, err := hc.Do(req)
	if err != nil {
		slog.Debug("api transport failure",
			"method", req.Method, "path", req.URL.Path, "error", err)
		return nil, c.transportError(req.Context(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	res := normalize(resp.StatusCode, body)
	slog.Debug("api call",
		"method", req.Method, "path", req.URL.Path,
		"status", res.StatusCode, "kind", res.Kind.String())
	return res, nil
}

// transportError converts low-level failures to user-facing messages.
func (c *Client) transportError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot reach %s: %w", c.baseURL, err)
}

func (c *Client) get(ctx context.Context, path string) (*Result, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*Result, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

func (c *Client) put(ctx context.Context, path string, body []byte) (*Result, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

func (c *Client) delete(ctx context.Context, path string) (*Result, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}
