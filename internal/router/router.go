package router

import (
	"errors"
	"fmt"
	"sync"

	"github.com/yoguido/yoguido/internal/session"
	"github.com/yoguido/yoguido/internal/state"
	"github.com/yoguido/yoguido/internal/ui"
)

// Sentinel errors for route registration.
var (
	ErrFrozen        = errors.New("router frozen, register pages before serving")
	ErrDuplicatePath = errors.New("duplicate route path")
	ErrEmptyPath     = errors.New("route path is empty")
	ErrNilComponent  = errors.New("route component is nil")
	ErrUnknownLayout = errors.New("route names an unregistered layout")
	ErrDuplicateName = errors.New("duplicate layout name")
)

// ComponentFunc builds one page's component tree.
type ComponentFunc func(b *ui.Builder, ctx *Context)

// LayoutFunc wraps a page body in shared chrome. Implementations must call
// content exactly once inside the container the body should land in.
type LayoutFunc func(b *ui.Builder, ctx *Context, content func(*ui.Builder))

// Page binds a route path to a component and optional layout.
type Page struct {
	Path      string
	Title     string
	Layout    string
	Component ComponentFunc
}

// Context carries per-render session facilities into component functions.
type Context struct {
	sess     *session.Session
	registry *state.Registry
}

// NewContext builds the render context for one session.
func NewContext(sess *session.Session) *Context {
	return &Context{sess: sess, registry: sess.Registry()}
}

// Use returns the session state container for (site, key), creating it with
// defaults on first use.
func (c *Context) Use(site, key string, defaults map[string]any) *state.Container {
	return c.registry.Use(site, key, defaults)
}

// CurrentPath returns the session's route path. Calling it during a render
// subscribes the element under construction to navigation changes.
func (c *Context) CurrentPath() string {
	return c.sess.Path()
}

// NavigateTo switches the session to another route. The route container is
// marked dirty, so the dispatch that ran the triggering handler rebuilds
// against the new page.
func (c *Context) NavigateTo(path string) {
	c.sess.Navigate(path)
}

// Notify queues a transient notification, delivered with the next response.
func (c *Context) Notify(level, message string) {
	c.sess.QueueNotification(session.Notification{Level: level, Message: message})
}

// IsCurrentPage reports whether the session is on the given path.
func (c *Context) IsCurrentPage(path string) bool {
	return c.CurrentPath() == path
}

// Registry resolves paths to pages. Registration happens at startup; the
// registry freezes at the first resolve.
type Registry struct {
	mu       sync.RWMutex
	frozen   bool
	pages    map[string]Page
	layouts  map[string]LayoutFunc
	notFound ComponentFunc
}

// NewRegistry creates an empty route registry with the default 404 page.
func NewRegistry() *Registry {
	return &Registry{
		pages:    make(map[string]Page),
		layouts:  make(map[string]LayoutFunc),
		notFound: defaultNotFound,
	}
}

// RegisterLayout adds a named layout for pages to reference.
func (r *Registry) RegisterLayout(name string, fn LayoutFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrFrozen
	}
	if _, ok := r.layouts[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	r.layouts[name] = fn
	return nil
}

// Register adds a page to the registry.
func (r *Registry) Register(p Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrFrozen
	}
	if p.Path == "" {
		return ErrEmptyPath
	}
	if p.Component == nil {
		return fmt.Errorf("%w: %s", ErrNilComponent, p.Path)
	}
	if _, ok := r.pages[p.Path]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePath, p.Path)
	}
	if p.Layout != "" {
		if _, ok := r.layouts[p.Layout]; !ok {
			return fmt.Errorf("%w: %s wants %s", ErrUnknownLayout, p.Path, p.Layout)
		}
	}
	r.pages[p.Path] = p
	return nil
}

// SetNotFound replaces the built-in 404 page.
func (r *Registry) SetNotFound(fn ComponentFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrFrozen
	}
	r.notFound = fn
	return nil
}

// Resolve returns the page for a path, or the not-found page when the path
// is unregistered. The first call freezes the registry.
func (r *Registry) Resolve(path string) Page {
	r.mu.Lock()
	r.frozen = true
	p, ok := r.pages[path]
	nf := r.notFound
	r.mu.Unlock()

	if ok {
		return p
	}
	return Page{Path: path, Title: "Not Found", Component: nf}
}

// Paths returns the registered route paths. Used by startup logging.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.pages))
	for p := range r.pages {
		out = append(out, p)
	}
	return out
}

// BuildFunc composes the page component with its layout, if any, into the
// single function a render pass executes.
func (r *Registry) BuildFunc(p Page, ctx *Context) func(*ui.Builder) {
	r.mu.RLock()
	layout := r.layouts[p.Layout]
	r.mu.RUnlock()

	body := func(b *ui.Builder) { p.Component(b, ctx) }
	if layout == nil {
		return body
	}
	return func(b *ui.Builder) { layout(b, ctx, body) }
}

// defaultNotFound renders the built-in 404 page.
func defaultNotFound(b *ui.Builder, ctx *Context) {
	b.Container(func(b *ui.Builder) {
		b.Title("Page not found", 2)
		b.Text(fmt.Sprintf("No page is registered at %s.", ctx.CurrentPath()))
	}, ui.WithClass("yg-not-found"))
}
