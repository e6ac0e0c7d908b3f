package state

import (
	"sort"
	"sync"
)

// Tracker records which containers were read while building which elements,
// producing the reverse map container -> dependent element IDs, and tracks
// which containers have been mutated since the last committed render.
//
// Edges are collected only between BeginPass and EndPass. Reads are buffered
// until the element whose construction triggered them finishes (the builder
// calls AttachPending with its ID); reads left over when a container block
// closes attribute to the container element itself.
type Tracker struct {
	mu sync.Mutex

	// active is true while a render pass is collecting edges.
	active bool

	// pendingReads holds container IDs read since the last element finished.
	pendingReads map[string]struct{}

	// edges maps container ID -> set of dependent element IDs.
	edges map[string]map[string]struct{}

	// dirty holds container IDs mutated since the last commit.
	dirty map[string]struct{}
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		pendingReads: make(map[string]struct{}),
		edges:        make(map[string]map[string]struct{}),
		dirty:        make(map[string]struct{}),
	}
}

// BeginPass starts collecting dependency edges for a fresh render pass.
// Edges from the previous pass are discarded; the tree may change shape.
func (t *Tracker) BeginPass() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = true
	t.pendingReads = make(map[string]struct{})
	t.edges = make(map[string]map[string]struct{})
}

// EndPass stops edge collection. Reads outside a pass (event callbacks) do
// not register edges.
func (t *Tracker) EndPass() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = false
	t.pendingReads = make(map[string]struct{})
}

// recordRead buffers a container read until the next element attaches.
func (t *Tracker) recordRead(containerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return
	}
	t.pendingReads[containerID] = struct{}{}
}

// AttachPending attributes all buffered reads to the element that just
// finished construction. Implements the builder's ReadObserver.
func (t *Tracker) AttachPending(nodeID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active || len(t.pendingReads) == 0 {
		return
	}
	for containerID := range t.pendingReads {
		set, ok := t.edges[containerID]
		if !ok {
			set = make(map[string]struct{})
			t.edges[containerID] = set
		}
		set[nodeID] = struct{}{}
	}
	t.pendingReads = make(map[string]struct{})
}

// Dependents returns the sorted element IDs recorded as dependents of the
// container during the last completed pass.
func (t *Tracker) Dependents(containerID string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	set := t.edges[containerID]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// MarkDirty flags a container as mutated since the last commit.
func (t *Tracker) MarkDirty(containerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dirty[containerID] = struct{}{}
}

// IsDirty reports whether any container changed since the last commit.
func (t *Tracker) IsDirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.dirty) > 0
}

// DirtyIDs returns the sorted IDs of containers mutated since last commit.
func (t *Tracker) DirtyIDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, 0, len(t.dirty))
	for id := range t.dirty {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ClearDirty resets the dirty set, called when a render commits.
func (t *Tracker) ClearDirty() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dirty = make(map[string]struct{})
}
