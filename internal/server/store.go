package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/JonMunkholm/WebDbAssistant/internal/session"
)

// Store keeps session state in memory. Turns on one session are serialised; distinct
// sessions never share state.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

type entry struct {
	mu    sync.Mutex
	state session.State
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*entry)}
}

// Create stores st under a new random ID.
func (s *Store) Create(st session.State) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &entry{state: st}
	s.mu.Unlock()
	return id
}

// Get returns a snapshot of the session state.
func (s *Store) Get(id string) (session.State, bool) {
	e, ok := s.lookup(id)
	if !ok {
		return session.State{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, true
}

// Update runs fn with the session locked and stores the state it returns.
func (s *Store) Update(id string, fn func(session.State) session.State) (session.State, bool) {
	e, ok := s.lookup(id)
	if !ok {
		return session.State{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = fn(e.state)
	return e.state, true
}

// Delete removes a session and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) lookup(id string) (*entry, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	return e, ok
}
