package dispatch

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/yoguido/yoguido/internal/diff"
	"github.com/yoguido/yoguido/internal/logging"
	"github.com/yoguido/yoguido/internal/router"
	"github.com/yoguido/yoguido/internal/session"
	"github.com/yoguido/yoguido/internal/ui"
)

// Config holds dispatch settings.
type Config struct {
	// HandlerTimeout bounds a single event handler. Zero disables the bound.
	HandlerTimeout time.Duration

	// RecoverPanics converts handler panics into error results instead of
	// crashing the server.
	RecoverPanics bool
}

// DefaultConfig returns the default dispatch configuration.
func DefaultConfig() Config {
	return Config{
		HandlerTimeout: 0,
		RecoverPanics:  true,
	}
}

// Status classifies a dispatch outcome.
type Status int

const (
	// StatusPatch means the result carries a patch stream for the client.
	StatusPatch Status = iota
	// StatusResync means the client must replace its DOM with the full tree.
	StatusResync
	// StatusError means the dispatch failed and the committed tree is
	// unchanged.
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPatch:
		return "patch"
	case StatusResync:
		return "resync"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of one dispatch or full render.
type Result struct {
	Status        Status
	Version       uint64
	Patches       []diff.PatchOp
	Tree          *ui.Element
	Title         string
	Notifications []session.Notification
	Err           error
}

// Dispatcher runs the event-to-patch cycle against a route registry.
type Dispatcher struct {
	cfg    Config
	routes *router.Registry
	logger *logging.Logger
}

// New creates a dispatcher. A nil logger disables logging.
func New(cfg Config, routes *router.Registry, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NullLogger
	}
	return &Dispatcher{
		cfg:    cfg,
		routes: routes,
		logger: logger.WithComponent("dispatch"),
	}
}

// NewWithDefaults creates a dispatcher with default configuration.
func NewWithDefaults(routes *router.Registry) *Dispatcher {
	return New(DefaultConfig(), routes, nil)
}

// Dispatch handles one client event: resolve the handler against the
// committed tree, run it, rebuild, diff, commit, answer.
func (d *Dispatcher) Dispatch(sess *session.Session, nodeID, event string, payload ui.Payload) Result {
	sess.Lock()
	defer sess.Unlock()

	if sess.Destroyed() {
		return Result{Status: StatusError, Err: ErrSessionDestroyed}
	}

	log := d.logger.WithSession(sess.ID())

	committed := sess.Committed()
	if committed == nil || committed.Root.Find(nodeID) == nil {
		// The client is acting on a tree the server no longer holds.
		log.Warn("stale event %q on %s, resyncing", event, nodeID)
		return d.resync(sess, ErrStaleHandler)
	}

	sess.QueueEvent(ui.PendingEvent{NodeID: nodeID, Name: event, Payload: payload})

	pathBefore := sess.Path()

	var handlerErr error
	if handler := committed.Handler(nodeID, event); handler != nil {
		if err := d.runHandler(handler, payload, nodeID, event); err != nil {
			if errors.Is(err, ErrHandlerTimeout) {
				// The in-flight render is discarded whole; the abandoned
				// handler's writes surface in the next rebuild.
				log.Error("handler timed out: %v", err)
				return Result{Status: StatusError, Version: sess.Version(), Err: err}
			}
			// The handler may have mutated state before failing, so the
			// rebuild still runs. The client learns about the failure
			// through a notification, not a dead page.
			log.Error("handler failed: %v", err)
			sess.QueueNotification(session.Notification{
				Level:   "error",
				Message: handlerNotice(err),
			})
			handlerErr = err
		}
	}

	if sess.Path() != pathBefore {
		// Navigation swaps the whole page; patching across pages is not
		// meaningful.
		log.Debug("navigated %s -> %s", pathBefore, sess.Path())
		return d.resync(sess, handlerErr)
	}

	tree, err := d.build(sess)
	if err != nil {
		log.Error("rebuild failed: %v", err)
		return Result{Status: StatusError, Version: sess.Version(), Err: err}
	}

	if sess.Destroyed() {
		// Destroyed mid-dispatch; the render is discarded, never committed.
		return Result{Status: StatusError, Err: ErrSessionDestroyed}
	}

	ops := diff.Diff(committed.Root, tree.Root)
	if err := diff.Validate(committed.Root, tree.Root, ops); err != nil {
		log.Error("invalid patch stream, resyncing: %v", err)
		version := sess.Commit(tree)
		return Result{
			Status:        StatusResync,
			Version:       version,
			Tree:          tree.Root,
			Title:         d.routes.Resolve(sess.Path()).Title,
			Notifications: sess.DrainNotifications(),
			Err:           err,
		}
	}

	version := sess.Commit(tree)
	return Result{
		Status:        StatusPatch,
		Version:       version,
		Patches:       ops,
		Notifications: sess.DrainNotifications(),
		Err:           handlerErr,
	}
}

// handlerNotice condenses a handler failure into a client-facing message;
// stacks stay in the server log.
func handlerNotice(err error) string {
	var herr *HandlerError
	if errors.As(err, &herr) && herr.Recovered != nil {
		return fmt.Sprintf("handler for %q failed: %v", herr.Event, herr.Recovered)
	}
	return err.Error()
}

// FullRender builds and commits the session's current page from scratch,
// answering with the full tree. Used for the initial page load and after
// stale or invalid states.
func (d *Dispatcher) FullRender(sess *session.Session) Result {
	sess.Lock()
	defer sess.Unlock()

	if sess.Destroyed() {
		return Result{Status: StatusError, Err: ErrSessionDestroyed}
	}
	return d.resync(sess, nil)
}

// resync rebuilds the current page and answers with the full tree. The
// caller holds the session lock. cause, when non-nil, is attached to the
// result for logging without failing it.
func (d *Dispatcher) resync(sess *session.Session, cause error) Result {
	tree, err := d.build(sess)
	if err != nil {
		return Result{Status: StatusError, Version: sess.Version(), Err: err}
	}

	if sess.Destroyed() {
		return Result{Status: StatusError, Err: ErrSessionDestroyed}
	}

	version := sess.Commit(tree)
	return Result{
		Status:        StatusResync,
		Version:       version,
		Tree:          tree.Root,
		Title:         d.routes.Resolve(sess.Path()).Title,
		Notifications: sess.DrainNotifications(),
		Err:           cause,
	}
}

// build runs one render pass for the session's current route. The caller
// holds the session lock.
func (d *Dispatcher) build(sess *session.Session) (*ui.Tree, error) {
	page := d.routes.Resolve(sess.Path())
	ctx := router.NewContext(sess)
	fn := d.routes.BuildFunc(page, ctx)

	tracker := sess.Tracker()
	tracker.BeginPass()
	defer tracker.EndPass()

	return ui.Build(page.Path, sess.PendingEvents(), tracker, fn)
}

// runHandler executes a user callback under the panic and timeout policy.
// On timeout the handler keeps running in its goroutine; its state writes
// mark containers dirty and surface in the next rebuild.
func (d *Dispatcher) runHandler(h ui.Handler, payload ui.Payload, nodeID, event string) error {
	run := func() (err error) {
		if d.cfg.RecoverPanics {
			defer func() {
				if r := recover(); r != nil {
					stack := make([]byte, 4096)
					n := runtime.Stack(stack, false)
					err = &HandlerError{
						NodeID:    nodeID,
						Event:     event,
						Recovered: r,
						Err:       fmt.Errorf("panic: %v\n%s", r, stack[:n]),
					}
				}
			}()
		}
		h(payload)
		return nil
	}

	if d.cfg.HandlerTimeout <= 0 {
		return run()
	}

	done := make(chan error, 1)
	go func() { done <- run() }()

	timer := time.NewTimer(d.cfg.HandlerTimeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return &HandlerError{NodeID: nodeID, Event: event, Err: ErrHandlerTimeout}
	}
}
