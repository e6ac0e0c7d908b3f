// Package state provides reactive state containers and the dependency
// tracker that relates them to the component tree.
//
// A Container wraps named fields behind typed getter/setter operations that
// record read and write events, the explicit-wrapper replacement for
// attribute interception: reads during an active render pass register a
// dependency edge from the container to the element under construction, and
// writes bump the container version and mark it dirty for the session.
//
// Containers are created through a session-scoped Registry with Use, which
// returns the same instance across renders for a given (site, key) pair.
// Mutation outside a render pass (inside an event callback) is legal and is
// the expected trigger for the next render.
//
// Dependency edges are rebuilt on every render pass because the tree may
// change shape; they are never persisted across renders.
package state
