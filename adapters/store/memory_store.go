package store

import (
	"context"
	"sync"

	"github.com/layer-3/anteroom/core"
	"github.com/layer-3/anteroom/ports"
)

// MemoryStore is an in-memory implementation of the AccountStore interface,
// intended for tests and single-node development.
type MemoryStore struct {
	accounts map[string]string
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory account store
func NewMemoryStore() ports.AccountStore {
	return &MemoryStore{
		accounts: make(map[string]string),
	}
}

// Name returns the display name registered for the address
func (s *MemoryStore) Name(ctx context.Context, address string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name, ok := s.accounts[core.CanonicalAddress(address)]
	if !ok {
		return "", core.ErrNoAccount
	}

	return name, nil
}

// Create registers a display name for the address, failing when one exists
func (s *MemoryStore) Create(ctx context.Context, address, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := core.CanonicalAddress(address)
	if _, ok := s.accounts[key]; ok {
		return core.ErrAccountExists
	}

	s.accounts[key] = name
	return nil
}
