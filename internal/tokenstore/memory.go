package tokenstore

import (
	"sync"
	"time"
)

// MemStore keeps tokens in memory. Used in tests and for ephemeral sessions.
type MemStore struct {
	mu     sync.Mutex
	tokens Tokens
	saved  bool
	now    func() time.Time
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{now: time.Now}
}

// Save stores the token pair
func (s *MemStore) Save(tokens Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = tokens
	s.saved = true
	return nil
}

// Load returns the stored token pair, enforcing expiry metadata
func (s *MemStore) Load() (Tokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saved {
		return Tokens{}, ErrNoTokens
	}
	tokens, gone := s.tokens.expired(s.now())
	if gone {
		s.tokens = Tokens{}
		s.saved = false
		return Tokens{}, ErrNoTokens
	}
	return tokens, nil
}

// Clear erases the stored pair
func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = Tokens{}
	s.saved = false
	return nil
}
