package upstream

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the platform API client. Callers branch
// on these to decide whether a failure means the session is revoked
// (ErrUnauthorized) or the platform is merely unreachable
// (ErrUnavailable).
var (
	// ErrUnavailable indicates the platform API could not be reached
	// (connection refused, timeout, DNS failure)
	ErrUnavailable = errors.New("upstream: platform unavailable")

	// ErrUnauthorized indicates the platform rejected the credentials
	// with HTTP 401
	ErrUnauthorized = errors.New("upstream: unauthorized")

	// ErrForbidden indicates the platform rejected the request with
	// HTTP 403
	ErrForbidden = errors.New("upstream: forbidden")

	// ErrNotFound indicates the requested resource does not exist on
	// the platform
	ErrNotFound = errors.New("upstream: not found")

	// ErrInvalidResponse indicates the platform returned a body that
	// could not be parsed
	ErrInvalidResponse = errors.New("upstream: invalid response")

	// ErrRequestFailed indicates the platform returned a non-success
	// envelope or an unexpected HTTP status
	ErrRequestFailed = errors.New("upstream: request failed")
)

// APIError carries the platform's own error code and message for a
// failed request
type APIError struct {
	HTTPStatus int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("upstream: %s - %s (HTTP %d)", e.Code, e.Message, e.HTTPStatus)
	}
	return fmt.Sprintf("upstream: HTTP %d - %s", e.HTTPStatus, e.Message)
}

// Unwrap maps the HTTP status onto the client's sentinel errors so
// callers can use errors.Is without inspecting status codes
func (e *APIError) Unwrap() error {
	switch e.HTTPStatus {
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	default:
		return ErrRequestFailed
	}
}

// IsSessionRevoked reports whether err means the platform rejected the
// session token itself. Transport failures and 5xx responses are NOT
// revocations: a session must never be discarded because the platform
// was briefly unreachable.
func IsSessionRevoked(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
