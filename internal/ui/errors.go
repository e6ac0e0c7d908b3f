package ui

import (
	"errors"
	"fmt"
)

// Sentinel errors for the component tree builder.
var (
	// ErrUnbalancedContainer is returned when a build finishes with an open
	// container, which indicates a builder bug rather than user error.
	ErrUnbalancedContainer = errors.New("unbalanced container stack")

	// ErrNilComponent is returned when a nil page or layout function is built.
	ErrNilComponent = errors.New("component function cannot be nil")
)

// BuildError wraps a failure raised while executing a page or layout
// function. The render that produced it is aborted and the previously
// committed tree is kept, so the client stays on a consistent last-good
// state.
type BuildError struct {
	// Route is the path being rendered when the failure occurred.
	Route string

	// Recovered is the recovered panic value, if the failure was a panic.
	Recovered any

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("build failed for %s: panic: %v", e.Route, e.Recovered)
	}
	return fmt.Sprintf("build failed for %s: %v", e.Route, e.Err)
}

// Unwrap returns the underlying error.
func (e *BuildError) Unwrap() error {
	return e.Err
}
