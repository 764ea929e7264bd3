// Package mail holds the inbox shown by the mail surface.
package mail

import (
	"strings"
	"sync"
)

// Email is a message in the inbox
type Email struct {
	ID      int    `json:"id" yaml:"id" toml:"id"`
	From    string `json:"from" yaml:"from" toml:"from"`
	Subject string `json:"subject" yaml:"subject" toml:"subject"`
	Preview string `json:"preview" yaml:"preview" toml:"preview"`
	Body    string `json:"body" yaml:"body" toml:"body"`
	Time    string `json:"time" yaml:"time" toml:"time"`
	Unread  bool   `json:"unread" yaml:"unread" toml:"unread"`
}

// Store is the in-memory inbox. Each deletion publishes a fresh list.
type Store struct {
	mu     sync.RWMutex
	emails []Email
}

// NewStore creates an inbox seeded with emails
func NewStore(emails []Email) *Store {
	seeded := make([]Email, len(emails))
	copy(seeded, emails)
	return &Store{emails: seeded}
}

// List returns the inbox in display order
func (s *Store) List() []Email {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Email, len(s.emails))
	copy(out, s.emails)
	return out
}

// Len returns the number of emails
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.emails)
}

// DeleteBySubject removes every email whose subject contains text
// (case-sensitive) and returns how many were removed.
func (s *Store) DeleteBySubject(text string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]Email, 0, len(s.emails))
	for _, e := range s.emails {
		if !strings.Contains(e.Subject, text) {
			kept = append(kept, e)
		}
	}

	removed := len(s.emails) - len(kept)
	if removed > 0 {
		s.emails = kept
	}
	return removed
}

// FindBySubject returns the first email whose subject contains text
func (s *Store) FindBySubject(text string) (Email, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.emails {
		if strings.Contains(e.Subject, text) {
			return e, true
		}
	}
	return Email{}, false
}
