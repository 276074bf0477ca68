package engine

import (
	"ProctorGuard/internal/entity"
	"sync"
)

type sessionEntry struct {
	mu    sync.Mutex
	state entity.SessionState
	// dead is set under mu when the entry has been removed from the map.
	dead bool
}

// SessionStore keeps one SessionState per session id. The map lock is only held
// to find or insert an entry; each entry carries its own lock so unrelated
// sessions never wait on each other.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*sessionEntry),
	}
}

func (s *SessionStore) entry(sessionID string) *sessionEntry {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok = s.sessions[sessionID]; ok {
		return e
	}

	e = &sessionEntry{state: entity.SessionState{SessionID: sessionID}}
	s.sessions[sessionID] = e
	return e
}

// lock returns the live entry for sessionID with its lock held. An entry torn
// down while the caller waited is skipped and looked up again.
func (s *SessionStore) lock(sessionID string) *sessionEntry {
	for {
		e := s.entry(sessionID)
		e.mu.Lock()
		if !e.dead {
			return e
		}
		e.mu.Unlock()
	}
}

// GetOrCreate returns a copy of the session state, creating a zeroed one on
// first use.
func (s *SessionStore) GetOrCreate(sessionID string) entity.SessionState {
	e := s.lock(sessionID)
	defer e.mu.Unlock()

	return copyState(e.state)
}

// WithSession runs fn while holding the session lock. Frames for one session
// are applied in the order their WithSession calls acquire the lock.
func (s *SessionStore) WithSession(sessionID string, fn func(state *entity.SessionState)) {
	e := s.lock(sessionID)
	defer e.mu.Unlock()

	fn(&e.state)
}

// Reset zeroes the counters and clears the pose. It reports whether the
// session existed.
func (s *SessionStore) Reset(sessionID string) bool {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dead {
		return false
	}
	e.state.Clear()
	return true
}

func (s *SessionStore) ResetAll() int {
	s.mu.RLock()
	entries := make([]*sessionEntry, 0, len(s.sessions))
	for _, e := range s.sessions {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	for _, e := range entries {
		e.mu.Lock()
		e.state.Clear()
		e.mu.Unlock()
	}

	return len(entries)
}

// Teardown forgets the session entirely. It waits for a frame in flight on
// that session, so the next frame starts from a fresh entry only after it.
// Lock order is entry then map.
func (s *SessionStore) Teardown(sessionID string) bool {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dead {
		return false
	}

	s.mu.Lock()
	if s.sessions[sessionID] == e {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	e.dead = true
	return true
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

func copyState(state entity.SessionState) entity.SessionState {
	if state.LastHeadPose != nil {
		pose := *state.LastHeadPose
		state.LastHeadPose = &pose
	}
	return state
}
