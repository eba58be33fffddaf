// Package storage provides the textual key-value store backing every
// workspace collection. Collections are always read and written whole:
// one key holds the JSON payload for the entire collection, and every
// mutation is a load, transform, save sequence. Last write wins at
// whole-collection granularity; the store carries no versioning and no
// lock, which is acceptable only while a single logical session owns it.
package storage

import "sync"

// Store abstracts the underlying textual key-value store. A payload is
// the serialized form of one whole collection.
type Store interface {
	// Get returns the payload stored under key. The second result is
	// false when the key has never been written.
	Get(key string) (string, bool, error)
	// Set overwrites the payload stored under key.
	Set(key, payload string) error
}

// MemoryStore keeps payloads in process memory. Tests and ephemeral
// sessions use it in place of the database-backed store.
type MemoryStore struct {
	mu       sync.RWMutex
	payloads map[string]string
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{payloads: make(map[string]string)}
}

// Get returns the payload stored under key.
func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.payloads[key]
	return payload, ok, nil
}

// Set overwrites the payload stored under key.
func (s *MemoryStore) Set(key, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads[key] = payload
	return nil
}
