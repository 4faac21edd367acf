// ABOUTME: Authorization-failure detection applied to every API response
// ABOUTME: Single implementation of the check the mobile screens each hand-rolled

package api

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Kind classifies a gateway outcome. Network failures are reported as errors
// from Do, not as a Kind, so callers cannot confuse the two recovery paths.
type Kind int

const (
	KindNone Kind = iota
	KindUnauthorized
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnauthorized:
		return "unauthorized"
	case KindServer:
		return "server_error"
	default:
		return "unknown"
	}
}

// tokenNotValidCode is the structured error code the API uses for rejected
// tokens, and tokenNotValidText the phrase embedded in free-text detail
// fields. The substring match is case-sensitive on purpose: it mirrors the
// observed behavior of every production response, and loosening it risks
// matching unrelated messages.
const (
	tokenNotValidCode = "token_not_valid"
	tokenNotValidText = "token not valid"
)

// isAuthFailure reports whether a response signals an invalidated session.
// The API embeds this signal in three different places depending on the
// endpoint, sometimes inside an HTTP 200 body, so the check runs on success
// and error paths alike.
func isAuthFailure(status int, body []byte) bool {
	if status == 401 {
		return true
	}
	if gjson.GetBytes(body, "code").String() == tokenNotValidCode {
		return true
	}
	detail := gjson.GetBytes(body, "detail")
	if detail.Type == gjson.String && strings.Contains(detail.Str, tokenNotValidText) {
		return true
	}
	return false
}
