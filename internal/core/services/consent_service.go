package services

import (
	"fmt"
	"sync"
)

// ConsentService tracks per-identity, per-session consent flags.
// The flag is transient by design: it is never persisted, and a fresh
// login (new session id) always starts without consent. Within a
// session the flag only moves from absent to granted.
type ConsentService struct {
	mu      sync.RWMutex
	granted map[string]struct{}
}

// NewConsentService creates a new consent service
func NewConsentService() *ConsentService {
	return &ConsentService{granted: make(map[string]struct{})}
}

func consentKey(userID uint, sessionID string) string {
	return fmt.Sprintf("%d:%s", userID, sessionID)
}

// Grant records consent for the given identity and session.
// Re-granting is a no-op, not an error.
func (s *ConsentService) Grant(userID uint, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.granted[consentKey(userID, sessionID)] = struct{}{}
}

// HasConsented reports whether consent was granted in this session
func (s *ConsentService) HasConsented(userID uint, sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.granted[consentKey(userID, sessionID)]
	return ok
}

// Forget drops all consent flags for a session. Called on logout so the
// map does not accumulate dead sessions.
func (s *ConsentService) Forget(userID uint, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.granted, consentKey(userID, sessionID))
}
