package scm

import (
	"fmt"

	"github.com/cdot65/scmsync/pkg/types"
)

// NotFoundError signals that no object matched an identity during a probe.
// It is an expected branch of reconciliation, not a failure: callers consume
// it internally and never surface it.
type NotFoundError struct {
	Identity types.Identity
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Identity)
}

// AuthenticationError reports a credential or session failure from the
// backend. Code and HTTPStatus are carried for caller diagnostics.
type AuthenticationError struct {
	Code       string
	HTTPStatus int
	Message    string
}

func (e *AuthenticationError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("authentication failed: %s (code=%s, http_status=%d)", e.Message, e.Code, e.HTTPStatus)
	}
	return fmt.Sprintf("authentication failed: %s (http_status=%d)", e.Message, e.HTTPStatus)
}

// APIError is any other backend fault (transport, permission, throttling).
// The engine never interprets or retries it; it propagates unchanged.
type APIError struct {
	HTTPStatus int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend request failed: %s (http_status=%d)", e.Message, e.HTTPStatus)
}
