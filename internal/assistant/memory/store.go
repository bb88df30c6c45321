package memory

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const DefaultWindow = 20

// Store owns one Conversation per session key. Idle sessions are
// evicted by capacity and TTL; a session is recreated empty on the
// next message after eviction.
type Store struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *Conversation]
	window   int
}

// NewStore creates a session store. capacity bounds live sessions,
// ttl bounds idle lifetime (0 disables expiry), window bounds each
// conversation's length.
func NewStore(capacity int, ttl time.Duration, window int) *Store {
	if capacity <= 0 {
		capacity = 512
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Store{
		sessions: expirable.NewLRU[string, *Conversation](capacity, nil, ttl),
		window:   window,
	}
}

// Get returns the conversation for key, creating it when absent.
func (s *Store) Get(key string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv, ok := s.sessions.Get(key); ok {
		return conv
	}
	conv := NewConversation(s.window)
	s.sessions.Add(key, conv)
	return conv
}

// Clear removes the session for key, reporting whether it existed.
func (s *Store) Clear(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Remove(key)
}

// SessionKey builds the session identity from the user and optional
// project scope.
func SessionKey(userID, projectCode string) string {
	if projectCode == "" {
		return userID + "|all"
	}
	return userID + "|" + projectCode
}
