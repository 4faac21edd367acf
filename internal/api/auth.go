// ABOUTME: Authentication endpoints: OTP request, OTP verification, logout
// ABOUTME: Login calls go out without a bearer token; the gateway tolerates that

package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"partnerhub/internal/session"
)

// ValidatePhone is the local sanity check applied before a phone number is
// sent to the login endpoint. Both the CLI prompt and the console form use
// it, so the two entry paths accept the same inputs.
func ValidatePhone(phone string) error {
	p := strings.TrimSpace(phone)
	if len(p) < 7 {
		return fmt.Errorf("phone number looks too short")
	}
	for i, r := range p {
		if r == '+' && i == 0 {
			continue
		}
		if r < '0' || r > '9' {
			return fmt.Errorf("phone number may only contain digits")
		}
	}
	return nil
}

// ValidateCode checks a one-time code locally before verification.
func ValidateCode(code string) error {
	c := strings.TrimSpace(code)
	if len(c) < 4 || len(c) > 8 {
		return fmt.Errorf("code should be 4-8 digits")
	}
	for _, r := range c {
		if r < '0' || r > '9' {
			return fmt.Errorf("code may only contain digits")
		}
	}
	return nil
}

// RequestOTP asks the service to send a one-time code to phone.
func (c *Client) RequestOTP(ctx context.Context, phone string) (*Result, error) {
	body, _ := sjson.SetBytes(nil, "phone", phone)
	return c.post(ctx, baseCommon+"/login", body)
}

// VerifyOTP exchanges phone + code for a token pair and user profile.
// The returned session is not persisted; that is the caller's decision.
func (c *Client) VerifyOTP(ctx context.Context, phone, code string) (*session.Session, *Result, error) {
	body, _ := sjson.SetBytes(nil, "phone", phone)
	body, _ = sjson.SetBytes(body, "otp", code)

	res, err := c.post(ctx, baseCommon+"/verify-otp", body)
	if err != nil {
		return nil, nil, err
	}
	if !res.OK {
		return nil, res, nil
	}

	data := res.Data()
	access := data.Get("access").String()
	user := data.Get("user")
	if access == "" || !user.Exists() {
		return nil, res, fmt.Errorf("malformed verify response: missing access token or user")
	}

	return &session.Session{
		AccessToken:  access,
		RefreshToken: data.Get("refresh").String(),
		Profile:      []byte(user.Raw),
	}, res, nil
}

// Logout tells the service to drop the current token. Best effort: local
// teardown proceeds regardless of what the server answers.
func (c *Client) Logout(ctx context.Context) (*Result, error) {
	return c.post(ctx, baseCommon+"/logout", nil)
}

// Units fetches the measurement units lookup from the common area.
func (c *Client) Units(ctx context.Context) ([]Lookup, *Result, error) {
	res, err := c.get(ctx, baseCommon+"/units")
	if err != nil {
		return nil, nil, err
	}
	if !res.OK {
		return nil, res, nil
	}
	return decodeLookups(res.Data()), res, nil
}

// Lookup is a generic id/name pair used by the lookup endpoints.
type Lookup struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func decodeLookups(data gjson.Result) []Lookup {
	var out []Lookup
	data.ForEach(func(_, item gjson.Result) bool {
		out = append(out, Lookup{
			ID:   item.Get("id").Int(),
			Name: item.Get("name").String(),
		})
		return true
	})
	return out
}
