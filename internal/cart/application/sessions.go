package application

import (
	"sync"

	"github.com/google/uuid"
)

// Sessions is the registry of per-session cart stores. Each session gets
// exactly one store, created on first use; the store itself serializes
// mutations, so the registry only has to make lookup safe for concurrent
// requests.
type Sessions struct {
	mu     sync.Mutex
	stores map[string]*Store
	opts   []Option
}

func NewSessions(opts ...Option) *Sessions {
	return &Sessions{
		stores: make(map[string]*Store),
		opts:   opts,
	}
}

// Get returns the store for a session id, creating it if needed.
func (s *Sessions) Get(sessionID string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	store, ok := s.stores[sessionID]
	if !ok {
		store = NewStore(s.opts...)
		s.stores[sessionID] = store
	}
	return store
}

// Drop tears down one session's store.
func (s *Sessions) Drop(sessionID string) {
	s.mu.Lock()
	store, ok := s.stores[sessionID]
	delete(s.stores, sessionID)
	s.mu.Unlock()
	if ok {
		store.Close()
	}
}

// Close tears down every store in the registry.
func (s *Sessions) Close() {
	s.mu.Lock()
	stores := s.stores
	s.stores = make(map[string]*Store)
	s.mu.Unlock()
	for _, store := range stores {
		store.Close()
	}
}

// NewSessionID mints an id for a fresh browsing session.
func NewSessionID() string {
	return uuid.NewString()
}
