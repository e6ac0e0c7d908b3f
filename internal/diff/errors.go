package diff

import (
	"errors"
	"fmt"
)

// Sentinel errors for patch validation and application.
var (
	// ErrUnknownNode indicates a patch op references a node ID present in
	// neither the old nor the new tree.
	ErrUnknownNode = errors.New("patch references unknown node")

	// ErrBadInsert indicates an insert op without a node payload.
	ErrBadInsert = errors.New("insert op carries no node")

	// ErrBadReorder indicates a reorder op whose order does not match the
	// parent's child set.
	ErrBadReorder = errors.New("reorder op does not match child set")
)

// InvariantError reports a patch stream that violates the diff contract.
// The dispatcher treats it as a bug and falls back to a full resync.
type InvariantError struct {
	Op     Op
	NodeID string
	Err    error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("diff invariant violated: op %s node %q: %v", e.Op, e.NodeID, e.Err)
}

func (e *InvariantError) Unwrap() error { return e.Err }
