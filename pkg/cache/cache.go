package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Store is the narrow cache interface consumed by the assistant core.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) bool
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// LRUStore is an in-process Store backed by an expirable LRU.
// The store-level TTL is an upper bound on entry lifetime; Set may
// request a shorter per-entry TTL.
type LRUStore struct {
	lru *expirable.LRU[string, entry]
}

// NewLRUStore creates a store with the given capacity and maximum TTL.
func NewLRUStore(capacity int, maxTTL time.Duration) *LRUStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if maxTTL <= 0 {
		maxTTL = DefaultMaxTTL
	}
	return &LRUStore{
		lru: expirable.NewLRU[string, entry](capacity, nil, maxTTL),
	}
}

// Get returns the cached value for key, or false when absent or expired.
func (s *LRUStore) Get(ctx context.Context, key string) ([]byte, bool) {
	e, ok := s.lru.Get(key)
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		s.lru.Remove(key)
		return nil, false
	}
	return e.data, true
}

// Set stores value under key for at most ttl. A non-positive ttl uses
// the store-level maximum.
func (s *LRUStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{data: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	s.lru.Add(key, e)
	return nil
}

// Delete removes key and reports whether it was present.
func (s *LRUStore) Delete(ctx context.Context, key string) bool {
	return s.lru.Remove(key)
}

// Key builds a cache key from the owning user, the resource name, and a
// hash of the filter parameters, so distinct filters never collide.
func Key(userID, resource string, filters any) string {
	return fmt.Sprintf("%s:%s:%s", userID, resource, hashFilters(filters))
}

func hashFilters(filters any) string {
	if filters == nil {
		return "none"
	}
	raw, err := json.Marshal(filters)
	if err != nil {
		return "none"
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8])
}

// GetJSON reads key and unmarshals it into out.
func GetJSON(ctx context.Context, s Store, key string, out any) bool {
	raw, ok := s.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.Delete(ctx, key)
		return false
	}
	return true
}

// SetJSON marshals value and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: failed to marshal value for %s: %w", key, err)
	}
	return s.Set(ctx, key, raw, ttl)
}
