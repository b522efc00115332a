package service

import (
	"sync"

	domainauth "github.com/gpse/sesam-client/internal/domain/auth"
)

// ProfileStore holds the profile of the currently logged-in user.
// It is safe for concurrent use and hands out copies only.
type ProfileStore struct {
	mu      sync.RWMutex
	current *domainauth.Profile
}

// NewProfileStore constructs an empty ProfileStore.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{}
}

// Set replaces the current profile. A nil profile clears the store.
func (s *ProfileStore) Set(p *domainauth.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		s.current = nil
		return
	}
	c := p.Clone()
	s.current = &c
}

// Current returns a copy of the current profile and whether one is present.
func (s *ProfileStore) Current() (domainauth.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domainauth.Profile{}, false
	}
	return s.current.Clone(), true
}

// IsAdmin reports whether a profile is present and carries the admin role.
func (s *ProfileStore) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.IsAdmin()
}

// Reset clears the current profile.
func (s *ProfileStore) Reset() {
	s.Set(nil)
}
