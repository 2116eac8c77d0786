package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process principal store for development and
// tests. Entries expire lazily on read.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	principal Principal
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory principal store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
	}
}

// Save implements Store
func (s *MemoryStore) Save(_ context.Context, principal *Principal, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[principal.SessionID] = memoryEntry{
		principal: *principal,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Get implements Store
func (s *MemoryStore) Get(_ context.Context, sessionID string) (*Principal, error) {
	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, sessionID)
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}

	principal := entry.principal
	return &principal, nil
}

// Delete implements Store
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

var _ Store = (*MemoryStore)(nil)
