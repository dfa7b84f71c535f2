// Package auth holds the session token shared between login and fetching.
package auth

import "sync"

// TokenSlot is a lock-guarded single-value cell. The last SetToken wins.
type TokenSlot struct {
	mu    sync.RWMutex
	token string
	set   bool
}

// NewTokenSlot returns an empty slot.
func NewTokenSlot() *TokenSlot {
	return &TokenSlot{}
}

// CurrentToken returns the most recently stored token, if any.
func (s *TokenSlot) CurrentToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.set
}

// SetToken replaces the stored token.
func (s *TokenSlot) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = true
}

// Clear forgets the stored token.
func (s *TokenSlot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
}
