package state

import (
	"reflect"
	"sync"
)

// Container wraps a set of named fields with read/write interception.
//
// A container is owned exclusively by the session registry that created it
// and is never shared across sessions. Renders and event dispatches for one
// session are serialized, so the mutex only guards against misuse, not
// expected concurrency.
type Container struct {
	mu      sync.RWMutex
	id      string
	fields  map[string]any
	version uint64
	tracker *Tracker
}

// ID returns the container's instance ID (stable per Use site and key).
func (c *Container) ID() string { return c.id }

// Version returns the mutation counter, incremented on every field change.
func (c *Container) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Get returns the named field's current value. During an active render pass
// the read registers a dependency edge to the element under construction.
func (c *Container) Get(name string) any {
	if c.tracker != nil {
		c.tracker.recordRead(c.id)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fields[name]
}

// String returns the named field as a string, or "" if absent or mistyped.
func (c *Container) String(name string) string {
	if s, ok := c.Get(name).(string); ok {
		return s
	}
	return ""
}

// Int returns the named field as an int, accepting the numeric types that
// survive JSON round-trips.
func (c *Container) Int(name string) int {
	switch n := c.Get(name).(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// Float returns the named field as a float64.
func (c *Container) Float(name string) float64 {
	switch n := c.Get(name).(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// Bool returns the named field as a bool.
func (c *Container) Bool(name string) bool {
	if b, ok := c.Get(name).(bool); ok {
		return b
	}
	return false
}

// Set writes the named field. Equal values are a no-op; otherwise the
// container version is incremented and the container is marked dirty.
func (c *Container) Set(name string, value any) {
	c.mu.Lock()
	old, existed := c.fields[name]
	if existed && reflect.DeepEqual(old, value) {
		c.mu.Unlock()
		return
	}
	c.fields[name] = value
	c.version++
	c.mu.Unlock()

	if c.tracker != nil {
		c.tracker.MarkDirty(c.id)
	}
}

// Inc adds delta to an integer field, treating an absent field as zero.
func (c *Container) Inc(name string, delta int) {
	c.Set(name, c.Int(name)+delta)
}

// Fields returns a copy of the current field map. The copy registers a read
// for every field.
func (c *Container) Fields() map[string]any {
	if c.tracker != nil {
		c.tracker.recordRead(c.id)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]any, len(c.fields))
	for k, v := range c.fields {
		out[k] = v
	}
	return out
}
