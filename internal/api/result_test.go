// ABOUTME: Tests for response normalization
// ABOUTME: Envelope status and message field variants fold into one shape

package api

import "testing"

func TestNormalize_UnauthorizedBeforeOtherKinds(t *testing.T) {
	// An invalidated token must never be misreported as a server error
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"401 with error envelope", 401, `{"st":3,"Msg":"broken"}`},
		{"200 with embedded code", 200, `{"code":"token_not_valid"}`},
		{"400 with detail phrase", 400, `{"detail":"token not valid"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := normalize(tc.status, []byte(tc.body))
			if r.Kind != KindUnauthorized {
				t.Errorf("Kind = %v, want unauthorized", r.Kind)
			}
			if r.OK {
				t.Error("unauthorized result must not be OK")
			}
		})
	}
}

func TestNormalize_SuccessEnvelope(t *testing.T) {
	r := normalize(200, []byte(`{"st":1,"data":[{"id":1}],"Msg":"done"}`))
	if !r.OK {
		t.Fatal("st=1 should be OK")
	}
	if r.Kind != KindNone {
		t.Errorf("Kind = %v, want none", r.Kind)
	}
	if r.Message != "done" {
		t.Errorf("Message = %q, want done", r.Message)
	}
	if r.Data().Get("0.id").Int() != 1 {
		t.Error("Data should expose the payload under data")
	}
}

func TestNormalize_EmptyResultStatus(t *testing.T) {
	r := normalize(200, []byte(`{"st":2,"msg":"no records"}`))
	if !r.OK {
		t.Fatal("st=2 should still be OK")
	}
	if !r.Empty() {
		t.Error("st=2 should report Empty")
	}
	if r.Message != "no records" {
		t.Errorf("Message = %q, want no records", r.Message)
	}
}

func TestNormalize_ErrorEnvelopeOn200(t *testing.T) {
	r := normalize(200, []byte(`{"st":5,"Msg":"kitchen closed"}`))
	if r.OK {
		t.Fatal("st=5 should not be OK")
	}
	if r.Kind != KindServer {
		t.Errorf("Kind = %v, want server_error", r.Kind)
	}
	if r.Message != "kitchen closed" {
		t.Errorf("Message = %q, want kitchen closed", r.Message)
	}
}

func TestNormalize_ValidationRejection(t *testing.T) {
	r := normalize(400, []byte(`{"detail":"name is required"}`))
	if r.Kind != KindServer {
		t.Errorf("Kind = %v, want server_error", r.Kind)
	}
	if r.Message != "name is required" {
		t.Errorf("Message = %q, want the server message verbatim", r.Message)
	}
}

func TestNormalize_NoEnvelope(t *testing.T) {
	r := normalize(200, []byte(`{"access":"tok","user":{"user_id":7}}`))
	if !r.OK {
		t.Fatal("200 without envelope should be OK")
	}
	if r.Data().Get("user.user_id").Int() != 7 {
		t.Error("Data should fall back to the whole body")
	}
}

func TestNormalize_MessageFieldVariants(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"st":1,"Msg":"upper"}`, "upper"},
		{`{"st":1,"msg":"lower"}`, "lower"},
		{`{"st":1,"message":"spelled"}`, "spelled"},
		{`{"st":3,"detail":"detailed"}`, "detailed"},
		{`{"st":1,"Msg":"first","msg":"second"}`, "first"},
	}
	for _, tc := range cases {
		r := normalize(200, []byte(tc.body))
		if r.Message != tc.want {
			t.Errorf("normalize(%s).Message = %q, want %q", tc.body, r.Message, tc.want)
		}
	}
}

func TestNormalize_ServerErrorFallbackMessage(t *testing.T) {
	r := normalize(500, []byte(`{}`))
	if r.Kind != KindServer {
		t.Fatalf("Kind = %v, want server_error", r.Kind)
	}
	if r.Message == "" {
		t.Error("server error with no message should carry a generic fallback")
	}
}

func TestNormalize_StatusFieldSpelledOut(t *testing.T) {
	// Some endpoints use "status" instead of "st"; string statuses are ignored
	r := normalize(200, []byte(`{"status":2,"msg":"empty"}`))
	if !r.Empty() {
		t.Error("numeric status field should be honored")
	}
	r = normalize(200, []byte(`{"status":"ready","id":1}`))
	if !r.OK || r.Empty() {
		t.Error("string status field belongs to the payload, not the envelope")
	}
}
