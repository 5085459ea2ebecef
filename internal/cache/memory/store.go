// Package memory provides an in-process CacheStore.
package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const defaultCleanupInterval = 5 * time.Minute

// Store implements domain.CacheStore on top of go-cache. Expired entries are
// never returned and are purged every cleanup interval.
type Store struct {
	items *gocache.Cache
}

// NewStore creates an empty store. defaultTTL applies when Set is given a
// non-positive ttl.
func NewStore(defaultTTL, cleanupInterval time.Duration) *Store {
	if cleanupInterval <= 0 {
		cleanupInterval = defaultCleanupInterval
	}
	return &Store{
		items: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get returns the value stored under key.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	item, found := s.items.Get(key)
	if !found {
		return "", false, nil
	}
	value, ok := item.(string)
	return value, ok, nil
}

// Set stores value under key with expiry ttl.
func (s *Store) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	s.items.Set(key, value, ttl)
	return nil
}

// Len returns the number of entries, including expired ones not yet purged.
func (s *Store) Len() int {
	return s.items.ItemCount()
}
