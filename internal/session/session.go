package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yoguido/yoguido/internal/state"
	"github.com/yoguido/yoguido/internal/ui"
)

// routeContainerID is the instance ID of the built-in route container. The
// current path lives in session state so reading it during a render registers
// a dependency edge like any other read.
const routeContainerID = "yoguido.route"

// Session is the isolated world of one connected client.
type Session struct {
	// mu serializes renders and event dispatches for this session. Activity
	// and liveness metadata use their own lock so the manager's sweep never
	// blocks behind a running render.
	mu     sync.Mutex
	metaMu sync.Mutex

	id       string
	tracker  *state.Tracker
	registry *state.Registry
	route    *state.Container

	committed *ui.Tree
	version   uint64
	pending   []ui.PendingEvent
	notices   []Notification

	lastActive time.Time
	destroyed  bool
}

// newSession creates a session starting at the given path.
func newSession(path string) *Session {
	tracker := state.NewTracker()
	registry := state.NewRegistry(tracker)
	route := registry.Use(routeContainerID, "", map[string]any{"path": path})

	return &Session{
		id:         uuid.NewString(),
		tracker:    tracker,
		registry:   registry,
		route:      route,
		lastActive: time.Now(),
	}
}

// ID returns the session's opaque identifier.
func (s *Session) ID() string { return s.id }

// Lock serializes render and dispatch work for this session.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Registry returns the session's state registry.
func (s *Session) Registry() *state.Registry { return s.registry }

// Tracker returns the session's dependency tracker.
func (s *Session) Tracker() *state.Tracker { return s.tracker }

// Route returns the container holding the current path. Reading the path
// through it during a render subscribes the reading element to navigation.
func (s *Session) Route() *state.Container { return s.route }

// Path returns the session's current route path.
func (s *Session) Path() string { return s.route.String("path") }

// Navigate updates the current path. The route container marks itself dirty,
// so the next render rebuilds against the new page.
func (s *Session) Navigate(path string) { s.route.Set("path", path) }

// Version returns the version of the last committed tree. The caller must
// hold the session lock.
func (s *Session) Version() uint64 { return s.version }

// Committed returns the last committed tree, or nil before the first render.
// The caller must hold the session lock.
func (s *Session) Committed() *ui.Tree { return s.committed }

// Commit installs a freshly built tree, bumps the version, clears the dirty
// set and the pending events consumed by the build. The caller must hold the
// session lock.
func (s *Session) Commit(tree *ui.Tree) uint64 {
	s.committed = tree
	s.version++
	s.pending = nil
	s.tracker.ClearDirty()
	return s.version
}

// QueueEvent records an interaction to be consumed by the next render. The
// caller must hold the session lock.
func (s *Session) QueueEvent(ev ui.PendingEvent) {
	s.pending = append(s.pending, ev)
}

// PendingEvents returns the interactions raised since the last commit. The
// caller must hold the session lock.
func (s *Session) PendingEvents() []ui.PendingEvent { return s.pending }

// Notification is a transient message a handler pushes to the client,
// delivered alongside the next patch or resync.
type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// QueueNotification appends a notification for the next response. Safe to
// call from handler goroutines that outlive their dispatch.
func (s *Session) QueueNotification(n Notification) {
	s.metaMu.Lock()
	s.notices = append(s.notices, n)
	s.metaMu.Unlock()
}

// DrainNotifications returns and clears the queued notifications.
func (s *Session) DrainNotifications() []Notification {
	s.metaMu.Lock()
	defer s.metaMu.Unlock()
	out := s.notices
	s.notices = nil
	return out
}

// Touch refreshes the activity timestamp used for TTL expiry.
func (s *Session) Touch() {
	s.metaMu.Lock()
	s.lastActive = time.Now()
	s.metaMu.Unlock()
}

// expired reports whether the session has been idle longer than ttl.
func (s *Session) expired(ttl time.Duration, now time.Time) bool {
	s.metaMu.Lock()
	defer s.metaMu.Unlock()
	return now.Sub(s.lastActive) > ttl
}

// destroy marks the session dead. A dispatch already in flight checks the
// flag before committing and discards its render.
func (s *Session) destroy() {
	s.metaMu.Lock()
	s.destroyed = true
	s.metaMu.Unlock()
}

// Destroyed reports whether the session has been torn down.
func (s *Session) Destroyed() bool {
	s.metaMu.Lock()
	defer s.metaMu.Unlock()
	return s.destroyed
}
