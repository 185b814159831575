// Package session holds per-caller server-side state for the step-up
// confirmation flow: a long-lived authenticated flag and at most one
// captured request (PendingAction) awaiting replay.
package session

import (
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PendingAction is a mutating request captured before redirecting the caller
// to the password confirmation page. It is stored server-side because the
// confirmation redirect replays the confirm form's body, not the original one.
type PendingAction struct {
	Method   string
	Path     string
	Body     url.Values
	ReturnTo string
}

type entry struct {
	authenticated bool
	pending       *PendingAction
	expires       time.Time
}

// Store is an in-memory session store keyed by opaque session id.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*entry
}

// NewStore creates a Store whose sessions expire ttl after last use.
func NewStore(ttl time.Duration) *Store {
	return &Store{ttl: ttl, sessions: make(map[string]*entry)}
}

// TTL returns the configured session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create registers a new session and returns its id.
func (s *Store) Create() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()

	id := uuid.NewString()
	s.sessions[id] = &entry{expires: time.Now().Add(s.ttl)}
	return id
}

// Exists reports whether id names a live session and extends its lifetime.
func (s *Store) Exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.get(id)
	if e == nil {
		return false
	}
	e.expires = time.Now().Add(s.ttl)
	return true
}

// Authenticated reports whether the session has passed the password check.
func (s *Store) Authenticated(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.get(id)
	return e != nil && e.authenticated
}

// SetAuthenticated marks the session as elevated. The flag is coarse-grained:
// it stays set for the session's lifetime, not for a single operation.
func (s *Store) SetAuthenticated(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.get(id); e != nil {
		e.authenticated = true
	}
}

// SetPending captures a deferred request, replacing any previous one.
func (s *Store) SetPending(id string, p PendingAction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.get(id); e != nil {
		e.pending = &p
	}
}

// TakePending returns the captured request for the given target path and
// clears it. The single-use consume prevents a second replay from reusing a
// stale body. A pending action captured for a different path stays put.
func (s *Store) TakePending(id, path string) *PendingAction {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.get(id)
	if e == nil || e.pending == nil || e.pending.Path != path {
		return nil
	}
	p := e.pending
	e.pending = nil
	return p
}

// get returns the live entry for id, dropping it when expired.
// Callers must hold s.mu.
func (s *Store) get(id string) *entry {
	e, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if time.Now().After(e.expires) {
		delete(s.sessions, id)
		return nil
	}
	return e
}

// pruneLocked sweeps expired sessions. Callers must hold s.mu.
func (s *Store) pruneLocked() {
	now := time.Now()
	for id, e := range s.sessions {
		if now.After(e.expires) {
			delete(s.sessions, id)
		}
	}
}
