package dispatch

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by dispatch.
var (
	// ErrStaleHandler indicates the event addressed a node absent from the
	// committed tree. The session answers with a resync.
	ErrStaleHandler = errors.New("event addresses a node not in the committed tree")

	// ErrSessionDestroyed indicates the session was torn down mid-dispatch.
	ErrSessionDestroyed = errors.New("session destroyed")

	// ErrHandlerTimeout indicates the handler exceeded the configured budget.
	ErrHandlerTimeout = errors.New("handler exceeded timeout")
)

// HandlerError wraps a failure inside a user event handler.
type HandlerError struct {
	NodeID    string
	Event     string
	Recovered any
	Err       error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler for %s %q: %v", e.NodeID, e.Event, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }
