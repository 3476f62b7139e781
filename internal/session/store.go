package session

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultIdleTTL is how long an unused session is kept.
const DefaultIdleTTL = 30 * time.Minute

// StoreConfig configures a Store.
type StoreConfig struct {
	Deps    Deps
	IdleTTL time.Duration
	Now     func() time.Time
}

type storeEntry struct {
	session  *Session
	lastSeen time.Time
}

// Store keeps sessions by id and expires the ones left idle.
type Store struct {
	deps Deps
	ttl  time.Duration
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*storeEntry
}

// NewStore creates an empty store.
func NewStore(cfg StoreConfig) *Store {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Store{
		deps:     cfg.Deps,
		ttl:      cfg.IdleTTL,
		now:      cfg.Now,
		sessions: make(map[string]*storeEntry),
	}
}

// Get returns the live session with id and marks it used.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	e, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	now := st.now()
	if now.Sub(e.lastSeen) > st.ttl {
		delete(st.sessions, id)
		return nil, false
	}
	e.lastSeen = now
	return e.session, true
}

// GetOrCreate returns the session with id, creating one with a fresh id
// when id is empty, unknown or expired.
func (st *Store) GetOrCreate(id string) (s *Session, created bool) {
	if id != "" {
		if s, ok := st.Get(id); ok {
			return s, false
		}
	}

	s = New(NewID(), st.deps)
	st.mu.Lock()
	st.sessions[s.ID] = &storeEntry{session: s, lastSeen: st.now()}
	st.mu.Unlock()

	slog.Debug("session created", "id", s.ID)
	return s, true
}

// Delete removes the session with id.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Sweep removes expired sessions and returns how many were removed.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	removed := 0
	for id, e := range st.sessions {
		if now.Sub(e.lastSeen) > st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
