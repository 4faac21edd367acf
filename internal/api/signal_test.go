// ABOUTME: Tests for authorization-failure detection
// ABOUTME: Covers status, structured code, and free-text detail signals

package api

import "testing"

func TestIsAuthFailure_Status401(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"unrelated body", `{"Msg":"something else"}`},
		{"html body", "<html>unauthorized</html>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !isAuthFailure(401, []byte(tc.body)) {
				t.Errorf("status 401 with body %q should be an auth failure", tc.body)
			}
		})
	}
}

func TestIsAuthFailure_TokenNotValidCode(t *testing.T) {
	// Some endpoints answer 200 with the error embedded in the body
	body := []byte(`{"code":"token_not_valid","detail":"irrelevant"}`)
	if !isAuthFailure(200, body) {
		t.Error("200 with code token_not_valid should be an auth failure")
	}
	if !isAuthFailure(400, body) {
		t.Error("400 with code token_not_valid should be an auth failure")
	}
}

func TestIsAuthFailure_DetailSubstring(t *testing.T) {
	cases := []struct {
		name string
		body string
		want bool
	}{
		{"exact phrase", `{"detail":"token not valid"}`, true},
		{"embedded phrase", `{"detail":"Given token not valid for any token type"}`, true},
		{"different case", `{"detail":"Token Not Valid"}`, false},
		{"unrelated detail", `{"detail":"name is required"}`, false},
		{"detail not a string", `{"detail":42}`, false},
		{"detail object", `{"detail":{"code":"token not valid"}}`, false},
		{"no detail", `{"Msg":"ok"}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := isAuthFailure(200, []byte(tc.body))
			if got != tc.want {
				t.Errorf("isAuthFailure(200, %s) = %v, want %v", tc.body, got, tc.want)
			}
		})
	}
}

func TestIsAuthFailure_PlainErrors(t *testing.T) {
	if isAuthFailure(400, []byte(`{"detail":"name is required"}`)) {
		t.Error("validation 400 should not be an auth failure")
	}
	if isAuthFailure(500, []byte(`{"Msg":"boom"}`)) {
		t.Error("server 500 should not be an auth failure")
	}
	if isAuthFailure(200, []byte(`{"st":1,"data":[]}`)) {
		t.Error("success envelope should not be an auth failure")
	}
}
