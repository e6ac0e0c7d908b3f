package session

import (
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a session ID does not resolve. Callers answer
// the client with a fresh session and a full resync.
var ErrNotFound = errors.New("session not found")

// Config holds session lifecycle settings.
type Config struct {
	// TTL is how long a session may stay idle before the sweep destroys it.
	TTL time.Duration

	// SweepInterval is how often expired sessions are collected.
	SweepInterval time.Duration
}

// DefaultConfig returns the default session lifecycle settings.
func DefaultConfig() Config {
	return Config{
		TTL:           30 * time.Minute,
		SweepInterval: time.Minute,
	}
}

// Manager creates, resolves, and expires sessions.
type Manager struct {
	cfg Config

	mu       sync.RWMutex
	sessions map[string]*Session

	done     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a session manager. Call Start to enable TTL sweeping.
func NewManager(cfg Config) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultConfig().SweepInterval
	}
	return &Manager{
		cfg:      cfg,
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}
}

// Create allocates a new session starting at the given path.
func (m *Manager) Create(path string) *Session {
	s := newSession(path)

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	return s
}

// Get resolves a live session by ID and refreshes its activity timestamp.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || s.Destroyed() {
		return nil, ErrNotFound
	}
	s.Touch()
	return s, nil
}

// Destroy tears down a session. Its ID never resolves again.
func (m *Manager) Destroy(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.destroy()
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Start launches the background TTL sweep.
func (m *Manager) Start() {
	go m.sweepLoop()
}

// Stop terminates the background sweep. Safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

func (m *Manager) sweepLoop() {
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.sweep(now)
		}
	}
}

// sweep destroys every session idle past the TTL.
func (m *Manager) sweep(now time.Time) {
	m.mu.RLock()
	var expired []string
	for id, s := range m.sessions {
		if s.expired(m.cfg.TTL, now) {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range expired {
		m.Destroy(id)
	}
}
