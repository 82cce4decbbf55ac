// Package chat contains the response pipeline for the widget: it dispatches free-text
// questions to a generation gateway, falls back to canned keyword-matched replies when
// the gateway cannot answer, and shapes every outcome into display markup.
package chat

import (
	"context"
	"errors"
	"fmt"
)

// Gateway asks a remote language model a single question and returns its raw text.
// Implementations must not retry and must not substitute default strings: any upstream
// problem is reported through the error taxonomy below so callers can decide policy.
type Gateway interface {
	Ask(ctx context.Context, message string) (string, error)
}

// Gateway failure kinds. Implementations wrap these sentinels so the pipeline can
// classify failures with errors.Is.
var (
	// ErrRateLimited reports an upstream 429. It is the only failure kind that trips
	// the pipeline's fallback mode.
	ErrRateLimited = errors.New("gateway rate limited")
	// ErrForbidden reports an upstream 403.
	ErrForbidden = errors.New("gateway forbidden")
	// ErrUnavailable reports an upstream 5xx.
	ErrUnavailable = errors.New("gateway unavailable")
	// ErrMalformedResponse reports a 200 whose payload did not contain usable text.
	ErrMalformedResponse = errors.New("gateway returned malformed response")
)

// HTTPError reports a non-2xx status that maps to none of the named kinds.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("gateway returned status %d", e.Status)
}

// StatusError translates an HTTP status code into the matching failure kind.
func StatusError(status int) error {
	switch {
	case status == 429:
		return ErrRateLimited
	case status == 403:
		return ErrForbidden
	case status >= 500:
		return ErrUnavailable
	default:
		return &HTTPError{Status: status}
	}
}
