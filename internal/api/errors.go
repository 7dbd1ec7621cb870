package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Error is a structured remote failure: the HTTP status plus the
// server-supplied message when one was present.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: request failed with status %d", e.Status)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// IsUnauthorized reports whether err is a 401 response. Callers must
// treat this as "session invalid": clear the session and route to
// login instead of showing an inline error.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// fallbackEligible classifies failures that permit retrying the
// approve endpoint with its alternate verb: connection-level failures,
// 404 and 405. Cancellation and every other failure propagate
// unchanged.
func fallbackEligible(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusMethodNotAllowed
	}
	// No status at all means the transport never reached the server.
	return true
}
