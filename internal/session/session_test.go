package session

import (
	"errors"
	"testing"
	"time"

	"github.com/yoguido/yoguido/internal/ui"
)

func TestCreateAndGet(t *testing.T) {
	m := NewManager(DefaultConfig())
	defer m.Stop()

	sess := m.Create("/dashboard")
	if sess.ID() == "" {
		t.Fatal("session ID is empty")
	}
	if got := sess.Path(); got != "/dashboard" {
		t.Errorf("Path() = %q, want /dashboard", got)
	}

	got, err := m.Get(sess.ID())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != sess {
		t.Error("Get() returned a different session")
	}
}

func TestGetUnknownSession(t *testing.T) {
	m := NewManager(DefaultConfig())
	defer m.Stop()

	if _, err := m.Get("no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDestroyedIDNeverResolves(t *testing.T) {
	m := NewManager(DefaultConfig())
	defer m.Stop()

	sess := m.Create("/")
	m.Destroy(sess.ID())

	if _, err := m.Get(sess.ID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after destroy", err)
	}
	if !sess.Destroyed() {
		t.Error("Destroyed() = false after destroy")
	}
	if got := m.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	m := NewManager(Config{TTL: time.Minute, SweepInterval: time.Hour})
	defer m.Stop()

	idle := m.Create("/")
	active := m.Create("/")

	m.sweep(time.Now())
	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 before TTL", m.Len())
	}

	// Only the touched session survives a sweep past the TTL.
	future := time.Now().Add(2 * time.Minute)
	active.metaMu.Lock()
	active.lastActive = future
	active.metaMu.Unlock()

	m.sweep(future)
	if _, err := m.Get(idle.ID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("idle session still resolves: %v", err)
	}
	if _, err := m.Get(active.ID()); err != nil {
		t.Errorf("active session expired: %v", err)
	}
}

func TestSessionsDoNotShareState(t *testing.T) {
	m := NewManager(DefaultConfig())
	defer m.Stop()

	one := m.Create("/")
	two := m.Create("/")

	one.Registry().Use("page.counter", "", map[string]any{"count": 0}).Set("count", 10)
	if got := two.Registry().Use("page.counter", "", map[string]any{"count": 0}).Int("count"); got != 0 {
		t.Errorf("second session count = %d, want 0", got)
	}
}

func TestCommitAdvancesVersionAndClears(t *testing.T) {
	m := NewManager(DefaultConfig())
	defer m.Stop()
	sess := m.Create("/")

	sess.Lock()
	defer sess.Unlock()

	sess.QueueEvent(ui.PendingEvent{NodeID: "root/button.0", Name: "click"})
	sess.Registry().Use("s", "", nil).Set("x", 1)

	tree := &ui.Tree{Root: &ui.Element{ID: ui.RootID, Kind: ui.KindRoot}}
	if got := sess.Commit(tree); got != 1 {
		t.Errorf("Commit() = %d, want 1", got)
	}
	if got := sess.Version(); got != 1 {
		t.Errorf("Version() = %d, want 1", got)
	}
	if got := sess.PendingEvents(); len(got) != 0 {
		t.Errorf("PendingEvents() = %v, want none after commit", got)
	}
	if sess.Tracker().IsDirty() {
		t.Error("tracker still dirty after commit")
	}
	if sess.Committed() != tree {
		t.Error("Committed() is not the committed tree")
	}
}

func TestNavigateMarksRouteDirty(t *testing.T) {
	m := NewManager(DefaultConfig())
	defer m.Stop()
	sess := m.Create("/")

	sess.Navigate("/users")
	if got := sess.Path(); got != "/users" {
		t.Errorf("Path() = %q, want /users", got)
	}
	if !sess.Tracker().IsDirty() {
		t.Error("navigation did not mark the route container dirty")
	}
}

func TestNotificationsDrainOnce(t *testing.T) {
	m := NewManager(DefaultConfig())
	defer m.Stop()
	sess := m.Create("/")

	sess.QueueNotification(Notification{Level: "info", Message: "saved"})
	first := sess.DrainNotifications()
	if len(first) != 1 || first[0].Message != "saved" {
		t.Fatalf("DrainNotifications() = %v, want one saved notice", first)
	}
	if got := sess.DrainNotifications(); len(got) != 0 {
		t.Errorf("second drain = %v, want empty", got)
	}
}
