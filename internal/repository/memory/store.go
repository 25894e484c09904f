package memory

import (
	"context"
	"sync"

	"github.com/mamadbah2/farmacia/internal/repository"
)

// Store keeps entries in process memory. Nothing survives a restart.
type Store struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{entries: make(map[string]string)}
}

// Get returns the value for key or repository.ErrNotFound.
func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return value, nil
}

// Set stores value under key.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

// Delete removes keys; missing keys are ignored.
func (s *Store) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}
