// internal/session/session.go
package session

import "sync"

// Session holds the currently authenticated principal. The sync engine and
// the fast-path propagator re-read it before every remote call, so clearing
// it on logout turns any in-flight remote work into a safe no-op.
type Session struct {
	mu        sync.RWMutex
	principal string
}

func New() *Session {
	return &Session{}
}

// SetPrincipal records the authenticated user id remote paths are
// namespaced under.
func (s *Session) SetPrincipal(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.principal = id
}

// Clear invalidates the session.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.principal = ""
}

// Principal returns the current principal id, and whether one is set.
func (s *Session) Principal() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.principal, s.principal != ""
}
