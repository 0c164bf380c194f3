package session

import (
	"sync"
)

// Registry tracks which issued tokens currently have an active session.
// The deadline scanner is session-scoped: it only evaluates reminders while
// at least one session is active, so logout of the last user silences it.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]string // token id -> user id
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]string)}
}

// Register records a session for the given token id.
func (r *Registry) Register(tokenID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[tokenID] = userID
}

// Remove ends the session for the given token id.
func (r *Registry) Remove(tokenID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, tokenID)
}

// Active reports whether any session is currently registered.
func (r *Registry) Active() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions) > 0
}

// Count returns the number of active sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Has reports whether the given token id has an active session.
func (r *Registry) Has(tokenID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[tokenID]
	return ok
}
