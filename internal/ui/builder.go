package ui

import (
	"fmt"
	"runtime"
	"sort"
)

// RootID is the ID of the synthetic mount point every page renders under.
const RootID = "root"

// PendingEvent is a user interaction raised since the previous commit. The
// builder consumes pending events to resolve interaction handles (e.g. "was
// this button clicked since the last render").
type PendingEvent struct {
	NodeID  string
	Name    string
	Payload Payload
}

// ReadObserver is notified when an element finishes construction, so state
// reads performed while computing its props can be attributed to it.
type ReadObserver interface {
	AttachPending(nodeID string)
}

// Tree is the result of one render pass: the root element plus the event
// handlers captured during the build, keyed by element ID and event name.
// Handlers are only valid against the tree they were captured with.
type Tree struct {
	Root     *Element
	Handlers map[string]map[string]Handler
}

// Handler returns the callback registered for (nodeID, event), or nil.
func (t *Tree) Handler(nodeID, event string) Handler {
	if t == nil || t.Handlers == nil {
		return nil
	}
	if byEvent, ok := t.Handlers[nodeID]; ok {
		return byEvent[event]
	}
	return nil
}

// frame is one level of the container stack.
type frame struct {
	el *Element

	// kindCounts numbers keyless siblings per kind for positional IDs.
	kindCounts map[Kind]int
}

// Builder assembles a component tree for a single render pass.
//
// A Builder is single-use and not safe for concurrent use; renders for one
// session are serialized by the session lock.
type Builder struct {
	root     *Element
	stack    []*frame
	pending  []PendingEvent
	handlers map[string]map[string]Handler
	observer ReadObserver
}

// NewBuilder creates a builder for one render pass. The pending events are
// the interactions raised since the previous commit; observer may be nil.
func NewBuilder(pending []PendingEvent, observer ReadObserver) *Builder {
	root := &Element{ID: RootID, Kind: KindRoot}
	return &Builder{
		root:     root,
		stack:    []*frame{{el: root, kindCounts: make(map[Kind]int)}},
		pending:  pending,
		handlers: make(map[string]map[string]Handler),
		observer: observer,
	}
}

// Build executes a component function against a fresh tree and returns the
// result. Panics in user code are recovered and reported as a BuildError;
// no partial tree escapes a failed build.
func Build(route string, pending []PendingEvent, observer ReadObserver, fn func(*Builder)) (tree *Tree, err error) {
	if fn == nil {
		return nil, ErrNilComponent
	}

	b := NewBuilder(pending, observer)

	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			tree = nil
			err = &BuildError{
				Route:     route,
				Recovered: r,
				Err:       fmt.Errorf("%v\n%s", r, stack[:n]),
			}
		}
	}()

	fn(b)

	if len(b.stack) != 1 {
		return nil, &BuildError{Route: route, Err: ErrUnbalancedContainer}
	}
	return &Tree{Root: b.root, Handlers: b.handlers}, nil
}

// current returns the innermost open container frame.
func (b *Builder) current() *frame {
	return b.stack[len(b.stack)-1]
}

// CurrentContainerID returns the ID of the innermost open container.
func (b *Builder) CurrentContainerID() string {
	return b.current().el.ID
}

// assignID derives the deterministic element ID from the parent ID, kind,
// sibling index among that kind, and the optional key. Keyed elements keep
// identity across reorders; keyless elements are positional.
func (f *frame) assignID(kind Kind, key string) string {
	if key != "" {
		return fmt.Sprintf("%s/%s@%s", f.el.ID, kind, key)
	}
	idx := f.kindCounts[kind]
	f.kindCounts[kind]++
	return fmt.Sprintf("%s/%s.%d", f.el.ID, kind, idx)
}

// emit creates an element from the resolved options, appends it to the open
// container, registers its handlers, and notifies the read observer.
func (b *Builder) emit(kind Kind, text string, base Props, opts []Option) *Element {
	o := resolveOptions(opts)

	parent := b.current()
	el := &Element{
		ID:    parent.assignID(kind, o.key),
		Kind:  kind,
		Text:  text,
		Key:   o.key,
		Props: append(base, o.props...),
	}

	if len(o.handlers) > 0 {
		b.handlers[el.ID] = o.handlers
		for name := range o.handlers {
			el.Events = append(el.Events, name)
		}
		sort.Strings(el.Events)
	}

	parent.el.Children = append(parent.el.Children, el)

	if b.observer != nil {
		b.observer.AttachPending(el.ID)
	}
	return el
}

// open pushes a container element as the new insertion target.
func (b *Builder) open(el *Element) {
	b.stack = append(b.stack, &frame{el: el, kindCounts: make(map[Kind]int)})
}

// close pops the innermost container. Leftover state reads inside the block
// attribute to the container itself.
func (b *Builder) close() {
	el := b.current().el
	b.stack = b.stack[:len(b.stack)-1]
	if b.observer != nil {
		b.observer.AttachPending(el.ID)
	}
}

// container emits an element, then runs fn with it as the open container.
func (b *Builder) container(kind Kind, base Props, opts []Option, fn func(*Builder)) *Element {
	el := b.emit(kind, "", base, opts)
	if fn != nil {
		b.open(el)
		fn(b)
		b.close()
	}
	return el
}

// eventFor returns the pending event targeting (nodeID, name), if any.
func (b *Builder) eventFor(nodeID, name string) (PendingEvent, bool) {
	for _, ev := range b.pending {
		if ev.NodeID == nodeID && ev.Name == name {
			return ev, true
		}
	}
	return PendingEvent{}, false
}
