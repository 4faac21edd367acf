// ABOUTME: Normalized result shape for all API responses
// ABOUTME: Folds the service's inconsistent envelope fields into one structure

package api

import (
	"github.com/tidwall/gjson"
)

// Envelope status values used by the service: 1 success, 2 validation or
// empty result, anything else is an error.
const (
	stSuccess = 1
	stEmpty   = 2
)

// Result is the single shape screens and commands consume. No caller ever
// branches on the raw envelope field names.
type Result struct {
	StatusCode int
	Body       []byte
	OK         bool
	Kind       Kind
	Message    string
}

// Data returns the payload under the envelope's data field, or the whole
// body when the endpoint responds without an envelope.
func (r *Result) Data() gjson.Result {
	if data := gjson.GetBytes(r.Body, "data"); data.Exists() {
		return data
	}
	return gjson.ParseBytes(r.Body)
}

// Empty reports whether the service answered with its empty-result status.
func (r *Result) Empty() bool {
	return r.OK && envelopeStatus(r.Body) == stEmpty
}

// normalize classifies a transport-successful response. The unauthorized
// check runs first: an invalidated token must never be misreported as a
// generic server error.
func normalize(status int, body []byte) *Result {
	r := &Result{StatusCode: status, Body: body}

	if isAuthFailure(status, body) {
		r.Kind = KindUnauthorized
		return r
	}

	r.Message = extractMessage(body)

	if status < 200 || status > 299 {
		r.Kind = KindServer
		if r.Message == "" {
			r.Message = "request failed"
		}
		return r
	}

	switch envelopeStatus(body) {
	case stSuccess, stEmpty, 0: // 0: endpoint responds without an envelope
		r.OK = true
		r.Kind = KindNone
	default:
		r.Kind = KindServer
		if r.Message == "" {
			r.Message = "request failed"
		}
	}

	return r
}

// envelopeStatus reads the service's status field, tolerating both the
// abbreviated and spelled-out names. Returns 0 when absent.
func envelopeStatus(body []byte) int64 {
	if st := gjson.GetBytes(body, "st"); st.Exists() {
		return st.Int()
	}
	if st := gjson.GetBytes(body, "status"); st.Exists() && st.Type == gjson.Number {
		return st.Int()
	}
	return 0
}

// extractMessage picks the message out of whichever field this endpoint
// chose: Msg, msg, message, or detail.
func extractMessage(body []byte) string {
	for _, field := range []string{"Msg", "msg", "message", "detail"} {
		if v := gjson.GetBytes(body, field); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}
