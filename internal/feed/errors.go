package feed

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by sources when a point lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrNoSession is returned when an operation requiring a logged-in viewer
// is called with an empty session.
var ErrNoSession = errors.New("login required")

// FetchError wraps a failed remote read. The caller recovers by showing
// stale or empty data and retrying on the next refresh.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MutationError wraps a failed remote write. By the time it is returned the
// optimistic local state has already been rolled back to the pre-call
// snapshot; the caller surfaces it as a visible but non-fatal failure.
type MutationError struct {
	Op  string
	Err error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("mutate %s: %v", e.Op, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }
