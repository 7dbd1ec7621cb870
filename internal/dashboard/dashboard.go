// Package dashboard owns the in-memory view state behind the employee
// and manager dashboards: fetched records, derived filtered views and
// statistics, and the optimistic approval protocol.
package dashboard

import (
	"errors"

	"github.com/jasminek987/WageFlowApp/internal/api"
)

// ErrLoginRequired signals that the caller must route to the login
// view. It is a navigation outcome, not a user-visible error: either
// no session exists or the API answered 401 and the session has
// already been cleared.
var ErrLoginRequired = errors.New("login required")

// State is the load lifecycle of a dashboard, re-entered on every
// refresh.
type State string

const (
	// StateIdle means no load has run yet.
	StateIdle State = "idle"
	// StateLoading means a load is in flight.
	StateLoading State = "loading"
	// StateReady means the last load succeeded.
	StateReady State = "ready"
	// StateError means the last load failed with a user-visible message.
	StateError State = "error"
)

func isUnauthorized(err error) bool {
	return api.IsUnauthorized(err)
}

// failureMessage builds the view-level error text: the server-supplied
// message when present, then the transport error text, then a generic
// fallback.
func failureMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return fallback
}
