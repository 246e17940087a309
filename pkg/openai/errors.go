package openai

import (
	"errors"
	"fmt"
)

// Outcome kinds of a completion call. Callers branch with errors.Is.
var (
	ErrSerialization     = errors.New("openai: failed to serialize request")
	ErrUnreachable       = errors.New("openai: service unreachable")
	ErrServiceRejected   = errors.New("openai: service rejected request")
	ErrMalformedResponse = errors.New("openai: malformed response")

	// ErrUnparsableResponse is the MalformedResponse case where the body
	// is not JSON at all.
	ErrUnparsableResponse = fmt.Errorf("%w: body is not valid JSON", ErrMalformedResponse)
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openai: API error %d: %s", e.StatusCode, e.Body)
}

// Is reports StatusError as ErrServiceRejected.
func (e *StatusError) Is(target error) bool {
	return target == ErrServiceRejected
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Kind returns a short label for the outcome of a completion call.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrSerialization):
		return "serialization_failure"
	case errors.Is(err, ErrServiceRejected):
		return "service_rejected"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	default:
		return "unreachable"
	}
}
