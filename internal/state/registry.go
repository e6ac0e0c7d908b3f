package state

import "sync"

// Registry holds the state containers of one render session, keyed by
// instance ID. Containers persist across renders for the lifetime of the
// session and die with it.
type Registry struct {
	mu         sync.RWMutex
	tracker    *Tracker
	containers map[string]*Container
}

// NewRegistry creates an empty registry bound to the session's tracker.
func NewRegistry(tracker *Tracker) *Registry {
	return &Registry{
		tracker:    tracker,
		containers: make(map[string]*Container),
	}
}

// instanceID derives the stable container identity from the call-site name
// and the optional key.
func instanceID(site, key string) string {
	if key == "" {
		return site
	}
	return site + "@" + key
}

// Use returns the container for (site, key), creating it with the given
// defaults on first use. Subsequent calls return the same instance with its
// accumulated state; defaults are only applied at creation.
func (r *Registry) Use(site, key string, defaults map[string]any) *Container {
	id := instanceID(site, key)

	r.mu.RLock()
	c, ok := r.containers[id]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.containers[id]; ok {
		return c
	}

	fields := make(map[string]any, len(defaults))
	for k, v := range defaults {
		fields[k] = v
	}
	c = &Container{
		id:      id,
		fields:  fields,
		tracker: r.tracker,
	}
	r.containers[id] = c
	return c
}

// Get returns the container with the given instance ID, or nil.
func (r *Registry) Get(id string) *Container {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.containers[id]
}

// Len returns the number of containers in the registry.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.containers)
}

// Tracker returns the dependency tracker the registry is bound to.
func (r *Registry) Tracker() *Tracker {
	return r.tracker
}
