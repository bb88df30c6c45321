// Package contextstore remembers the last project each user selected,
// so follow-up questions in the same session default to it.
package contextstore

import (
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const DefaultCapacity = 4096

// Store maps user id to the last bound project code. Last write wins;
// entries never expire by time, only by capacity pressure. Concurrent
// writes for the same user are an accepted race under the
// one-in-flight-message-per-session assumption.
type Store struct {
	entries *expirable.LRU[string, string]
}

// New creates a context store bounded to capacity users.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		entries: expirable.NewLRU[string, string](capacity, nil, 0),
	}
}

// Get returns the project code bound to userID, if any.
func (s *Store) Get(userID string) (string, bool) {
	return s.entries.Get(userID)
}

// Set binds projectCode to userID, replacing any previous binding.
func (s *Store) Set(userID, projectCode string) {
	s.entries.Add(userID, projectCode)
}

// Clear removes the binding for userID, reporting whether one existed.
func (s *Store) Clear(userID string) bool {
	return s.entries.Remove(userID)
}
