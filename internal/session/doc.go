// Package session owns the per-connection unit of isolation.
//
// A Session bundles everything one browser tab sees: its state registry and
// dependency tracker, its current route, the last committed component tree,
// a monotonically increasing tree version, and the interactions raised since
// the previous commit. Sessions never share state; two sessions rendering
// the same page hold independent container instances.
//
// All renders and event dispatches for one session run under the session
// lock, so at most one tree build is in flight per session at any time.
//
// The Manager creates, resolves, and expires sessions. Expiry is a
// last-activity TTL enforced by a background sweep; a destroyed session's
// ID is never resolved again, and events addressed to it answer with a
// fresh-session resync.
package session
