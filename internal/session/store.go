package session

import (
	"context"
	"sync"
	"time"
)

// Store persists session states by id. A missing session reads as NewState.
type Store interface {
	// Get returns the state of a session.
	Get(ctx context.Context, id string) (State, error)

	// Save replaces the state of a session.
	Save(ctx context.Context, id string, s State) error

	// Update applies fn to the current state and saves the result. Concurrent
	// updates of one session never lose writes.
	Update(ctx context.Context, id string, fn func(State) State) (State, error)

	// Delete forgets a session.
	Delete(ctx context.Context, id string) error
}

// Compile-time interface guards.
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)

type memoryEntry struct {
	state   State
	expires time.Time
}

// MemoryStore keeps sessions in process memory. Entries idle for longer
// than the TTL read as new sessions.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a MemoryStore. A non-positive ttl keeps sessions
// forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

// SetClock replaces the time source used for expiry.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *MemoryStore) Get(_ context.Context, id string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(id), nil
}

func (m *MemoryStore) Save(_ context.Context, id string, s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store(id, s)
	return nil
}

func (m *MemoryStore) Update(_ context.Context, id string, fn func(State) State) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := fn(m.load(id)).normalize()
	m.store(id, next)
	return next, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions and drops expired ones.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, e := range m.sessions {
		if m.expired(e, now) {
			delete(m.sessions, id)
		}
	}
	return len(m.sessions)
}

// load must be called with mu held.
func (m *MemoryStore) load(id string) State {
	e, ok := m.sessions[id]
	if !ok || m.expired(e, m.now()) {
		delete(m.sessions, id)
		return NewState()
	}
	return e.state.clone()
}

// store must be called with mu held.
func (m *MemoryStore) store(id string, s State) {
	e := memoryEntry{state: s.clone()}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.sessions[id] = e
}

func (m *MemoryStore) expired(e memoryEntry, now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}
