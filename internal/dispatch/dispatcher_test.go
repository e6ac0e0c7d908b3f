package dispatch

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/yoguido/yoguido/internal/diff"
	"github.com/yoguido/yoguido/internal/router"
	"github.com/yoguido/yoguido/internal/session"
	"github.com/yoguido/yoguido/internal/ui"
)

// counterPage is the canonical reactive scenario: a text reads the state a
// button's handler writes.
func counterPage(b *ui.Builder, ctx *router.Context) {
	c := ctx.Use("counter", "", map[string]any{"count": 0})
	b.Text(fmt.Sprintf("Count: %d", c.Int("count")))
	b.Button("Increment", ui.OnClick(func(ui.Payload) {
		c.Inc("count", 1)
	}))
}

func testRoutes(t *testing.T, pages ...router.Page) *router.Registry {
	t.Helper()
	r := router.NewRegistry()
	for _, p := range pages {
		if err := r.Register(p); err != nil {
			t.Fatalf("Register(%s) error = %v", p.Path, err)
		}
	}
	return r
}

func newSession(t *testing.T, path string) *session.Session {
	t.Helper()
	m := session.NewManager(session.DefaultConfig())
	t.Cleanup(func() { m.Stop() })
	return m.Create(path)
}

func TestFullRenderCommitsFirstTree(t *testing.T) {
	routes := testRoutes(t, router.Page{Path: "/", Title: "Counter", Component: counterPage})
	d := NewWithDefaults(routes)
	sess := newSession(t, "/")

	result := d.FullRender(sess)
	if result.Status != StatusResync {
		t.Fatalf("Status = %v, want resync", result.Status)
	}
	if result.Version != 1 {
		t.Errorf("Version = %d, want 1", result.Version)
	}
	if result.Title != "Counter" {
		t.Errorf("Title = %q, want Counter", result.Title)
	}
	if result.Tree.Find("root/button.0") == nil {
		t.Error("rendered tree has no button")
	}
}

func TestCounterClickPatchesOneText(t *testing.T) {
	routes := testRoutes(t, router.Page{Path: "/", Title: "Counter", Component: counterPage})
	d := NewWithDefaults(routes)
	sess := newSession(t, "/")
	d.FullRender(sess)

	result := d.Dispatch(sess, "root/button.0", "click", nil)
	if result.Status != StatusPatch {
		t.Fatalf("Status = %v, want patch (err=%v)", result.Status, result.Err)
	}
	if result.Version != 2 {
		t.Errorf("Version = %d, want 2", result.Version)
	}
	if len(result.Patches) != 1 {
		t.Fatalf("Patches = %+v, want exactly one", result.Patches)
	}

	op := result.Patches[0]
	if op.Op != diff.OpUpdateText || op.NodeID != "root/text.0" {
		t.Errorf("op = %+v, want updateText on root/text.0", op)
	}
	if op.Text == nil || *op.Text != "Count: 1" {
		t.Errorf("Text = %v, want Count: 1", op.Text)
	}

	if got := sess.Registry().Get("counter").Int("count"); got != 1 {
		t.Errorf("count = %d, want 1", got)
	}
}

func TestRepeatedClicksAccumulate(t *testing.T) {
	routes := testRoutes(t, router.Page{Path: "/", Component: counterPage})
	d := NewWithDefaults(routes)
	sess := newSession(t, "/")
	d.FullRender(sess)

	for i := 0; i < 3; i++ {
		if result := d.Dispatch(sess, "root/button.0", "click", nil); result.Status != StatusPatch {
			t.Fatalf("click %d: Status = %v (err=%v)", i, result.Status, result.Err)
		}
	}

	if got := sess.Registry().Get("counter").Int("count"); got != 3 {
		t.Errorf("count = %d, want 3", got)
	}
	if got := sess.Version(); got != 4 {
		t.Errorf("Version = %d, want 4", got)
	}
}

func TestSessionsStayIsolated(t *testing.T) {
	routes := testRoutes(t, router.Page{Path: "/", Component: counterPage})
	d := NewWithDefaults(routes)

	m := session.NewManager(session.DefaultConfig())
	defer m.Stop()
	one := m.Create("/")
	two := m.Create("/")
	d.FullRender(one)
	d.FullRender(two)

	d.Dispatch(one, "root/button.0", "click", nil)

	if got := one.Registry().Get("counter").Int("count"); got != 1 {
		t.Errorf("first session count = %d, want 1", got)
	}
	if got := two.Registry().Get("counter").Int("count"); got != 0 {
		t.Errorf("second session count = %d, want 0", got)
	}
}

func TestUnknownNodeResyncs(t *testing.T) {
	routes := testRoutes(t, router.Page{Path: "/", Component: counterPage})
	d := NewWithDefaults(routes)
	sess := newSession(t, "/")
	d.FullRender(sess)

	result := d.Dispatch(sess, "root/button.99", "click", nil)
	if result.Status != StatusResync {
		t.Fatalf("Status = %v, want resync", result.Status)
	}
	if !errors.Is(result.Err, ErrStaleHandler) {
		t.Errorf("Err = %v, want ErrStaleHandler", result.Err)
	}
	if result.Tree == nil {
		t.Error("resync carries no tree")
	}
	if result.Version != 2 {
		t.Errorf("Version = %d, want 2", result.Version)
	}
}

func TestNavigationResyncsToNewPage(t *testing.T) {
	home := func(b *ui.Builder, ctx *router.Context) {
		b.Button("Go", ui.OnClick(func(ui.Payload) {
			ctx.NavigateTo("/about")
		}))
	}
	about := func(b *ui.Builder, ctx *router.Context) {
		b.Title("About", 1)
	}
	routes := testRoutes(t,
		router.Page{Path: "/", Title: "Home", Component: home},
		router.Page{Path: "/about", Title: "About", Component: about},
	)
	d := NewWithDefaults(routes)
	sess := newSession(t, "/")
	d.FullRender(sess)

	result := d.Dispatch(sess, "root/button.0", "click", nil)
	if result.Status != StatusResync {
		t.Fatalf("Status = %v, want resync after navigation", result.Status)
	}
	if result.Title != "About" {
		t.Errorf("Title = %q, want About", result.Title)
	}
	if result.Tree.Find("root/title.0") == nil {
		t.Error("resync tree is not the new page")
	}
	if got := sess.Path(); got != "/about" {
		t.Errorf("Path() = %q, want /about", got)
	}
}

func TestUnhandledClickStillRebuilds(t *testing.T) {
	page := func(b *ui.Builder, ctx *router.Context) {
		if b.Button("Toggle").Clicked() {
			b.Text("clicked")
		}
	}
	routes := testRoutes(t, router.Page{Path: "/", Component: page})
	d := NewWithDefaults(routes)
	sess := newSession(t, "/")
	d.FullRender(sess)

	result := d.Dispatch(sess, "root/button.0", "click", nil)
	if result.Status != StatusPatch {
		t.Fatalf("Status = %v, want patch (err=%v)", result.Status, result.Err)
	}

	var sawInsert bool
	for _, op := range result.Patches {
		if op.Op == diff.OpInsert && op.Node != nil && op.Node.Text == "clicked" {
			sawInsert = true
		}
	}
	if !sawInsert {
		t.Errorf("Patches = %+v, want insert of clicked text", result.Patches)
	}
}

func TestHandlerPanicStillRebuildsAndPatches(t *testing.T) {
	page := func(b *ui.Builder, ctx *router.Context) {
		c := ctx.Use("counter", "", map[string]any{"count": 0})
		b.Text(fmt.Sprintf("Count: %d", c.Int("count")))
		b.Button("Boom", ui.OnClick(func(ui.Payload) {
			c.Inc("count", 1)
			panic("kaboom")
		}))
	}
	routes := testRoutes(t, router.Page{Path: "/", Component: page})
	d := NewWithDefaults(routes)
	sess := newSession(t, "/")
	d.FullRender(sess)

	result := d.Dispatch(sess, "root/button.0", "click", nil)
	if result.Status != StatusPatch {
		t.Fatalf("Status = %v, want patch (err=%v)", result.Status, result.Err)
	}

	var handlerErr *HandlerError
	if !errors.As(result.Err, &handlerErr) {
		t.Fatalf("Err = %v, want *HandlerError", result.Err)
	}
	if handlerErr.Recovered != "kaboom" {
		t.Errorf("Recovered = %v, want panic value", handlerErr.Recovered)
	}

	// The handler mutated state before panicking, so the rebuild commits
	// and the mutation reaches the client as a patch.
	if got := sess.Version(); got != 2 {
		t.Errorf("Version = %d, want 2", got)
	}
	if len(result.Patches) != 1 {
		t.Fatalf("Patches = %+v, want exactly one", result.Patches)
	}
	op := result.Patches[0]
	if op.Op != diff.OpUpdateText || op.Text == nil || *op.Text != "Count: 1" {
		t.Errorf("op = %+v, want updateText to Count: 1", op)
	}
	if got := sess.Registry().Get("counter").Int("count"); got != 1 {
		t.Errorf("count = %d, want 1", got)
	}

	if len(result.Notifications) != 1 || result.Notifications[0].Level != "error" {
		t.Errorf("Notifications = %v, want one error notice", result.Notifications)
	}
}

func TestHandlerPanicDuringNavigationResyncs(t *testing.T) {
	home := func(b *ui.Builder, ctx *router.Context) {
		b.Button("Go", ui.OnClick(func(ui.Payload) {
			ctx.NavigateTo("/about")
			panic("mid-flight")
		}))
	}
	about := func(b *ui.Builder, ctx *router.Context) {
		b.Title("About", 1)
	}
	routes := testRoutes(t,
		router.Page{Path: "/", Component: home},
		router.Page{Path: "/about", Title: "About", Component: about},
	)
	d := NewWithDefaults(routes)
	sess := newSession(t, "/")
	d.FullRender(sess)

	result := d.Dispatch(sess, "root/button.0", "click", nil)
	if result.Status != StatusResync {
		t.Fatalf("Status = %v, want resync", result.Status)
	}
	if result.Title != "About" {
		t.Errorf("Title = %q, want About", result.Title)
	}
	var handlerErr *HandlerError
	if !errors.As(result.Err, &handlerErr) {
		t.Errorf("Err = %v, want *HandlerError", result.Err)
	}
}

func TestDestroyedMidDispatchCommitsNothing(t *testing.T) {
	routes := router.NewRegistry()
	m := session.NewManager(session.DefaultConfig())
	defer m.Stop()
	sess := m.Create("/")

	page := func(b *ui.Builder, ctx *router.Context) {
		c := ctx.Use("counter", "", map[string]any{"count": 0})
		b.Text(fmt.Sprintf("Count: %d", c.Int("count")))
		b.Button("Kill", ui.OnClick(func(ui.Payload) {
			c.Inc("count", 1)
			m.Destroy(sess.ID())
		}))
	}
	if err := routes.Register(router.Page{Path: "/", Component: page}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	d := NewWithDefaults(routes)
	d.FullRender(sess)

	result := d.Dispatch(sess, "root/button.0", "click", nil)
	if result.Status != StatusError {
		t.Fatalf("Status = %v, want error for destroyed session", result.Status)
	}
	if !errors.Is(result.Err, ErrSessionDestroyed) {
		t.Errorf("Err = %v, want ErrSessionDestroyed", result.Err)
	}
	if got := sess.Version(); got != 1 {
		t.Errorf("Version = %d, want 1 (render discarded)", got)
	}
}

func TestHandlerTimeoutDiscardsRender(t *testing.T) {
	release := make(chan struct{})
	page := func(b *ui.Builder, ctx *router.Context) {
		c := ctx.Use("slow", "", map[string]any{"done": false})
		b.Text(fmt.Sprintf("done=%v", c.Bool("done")))
		b.Button("Slow", ui.OnClick(func(ui.Payload) {
			<-release
			c.Set("done", true)
		}))
	}
	routes := testRoutes(t, router.Page{Path: "/", Component: page})
	d := New(Config{HandlerTimeout: 20 * time.Millisecond, RecoverPanics: true}, routes, nil)
	sess := newSession(t, "/")
	d.FullRender(sess)

	result := d.Dispatch(sess, "root/button.0", "click", nil)
	if result.Status != StatusError {
		t.Fatalf("Status = %v, want error on timeout", result.Status)
	}
	if !errors.Is(result.Err, ErrHandlerTimeout) {
		t.Errorf("Err = %v, want ErrHandlerTimeout", result.Err)
	}
	if got := sess.Version(); got != 1 {
		t.Errorf("Version = %d, want 1", got)
	}
	close(release)
}

func TestNotificationsRideTheResult(t *testing.T) {
	page := func(b *ui.Builder, ctx *router.Context) {
		b.Button("Save", ui.OnClick(func(ui.Payload) {
			ctx.Notify("info", "saved")
		}))
	}
	routes := testRoutes(t, router.Page{Path: "/", Component: page})
	d := NewWithDefaults(routes)
	sess := newSession(t, "/")
	d.FullRender(sess)

	result := d.Dispatch(sess, "root/button.0", "click", nil)
	if len(result.Notifications) != 1 || result.Notifications[0].Message != "saved" {
		t.Errorf("Notifications = %v, want one saved notice", result.Notifications)
	}
}

func TestBuildPanicSurfacesAsError(t *testing.T) {
	page := func(b *ui.Builder, ctx *router.Context) {
		c := ctx.Use("s", "", map[string]any{"broken": false})
		if c.Bool("broken") {
			panic("render exploded")
		}
		b.Button("Break", ui.OnClick(func(ui.Payload) {
			c.Set("broken", true)
		}))
	}
	routes := testRoutes(t, router.Page{Path: "/", Component: page})
	d := NewWithDefaults(routes)
	sess := newSession(t, "/")
	d.FullRender(sess)

	result := d.Dispatch(sess, "root/button.0", "click", nil)
	if result.Status != StatusError {
		t.Fatalf("Status = %v, want error", result.Status)
	}
	var buildErr *ui.BuildError
	if !errors.As(result.Err, &buildErr) {
		t.Errorf("Err = %v, want *ui.BuildError", result.Err)
	}
}
