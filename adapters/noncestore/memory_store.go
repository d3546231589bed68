package noncestore

import (
	"context"
	"sync"
	"time"

	"github.com/layer-3/anteroom/core"
	"github.com/layer-3/anteroom/ports"
)

type entry struct {
	nonce     int
	expiresAt time.Time
}

// MemoryStore is an in-memory implementation of the NonceStore interface,
// intended for tests and single-node development.
type MemoryStore struct {
	nonces map[string]entry
	ttl    time.Duration
	mu     sync.RWMutex
}

// NewMemoryStore creates a new in-memory nonce store
func NewMemoryStore() ports.NonceStore {
	return &MemoryStore{
		nonces: make(map[string]entry),
		ttl:    DefaultTTL,
	}
}

// Issue generates a fresh nonce for the address, replacing any previous one
func (s *MemoryStore) Issue(ctx context.Context, address string) (int, error) {
	nonce, err := randomNonce()
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nonces[core.CanonicalAddress(address)] = entry{
		nonce:     nonce,
		expiresAt: time.Now().Add(s.ttl),
	}

	return nonce, nil
}

// Peek returns the live nonce for the address, treating expired entries as
// absent. Eviction happens lazily on the next Issue for the same address.
func (s *MemoryStore) Peek(ctx context.Context, address string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.nonces[core.CanonicalAddress(address)]
	if !ok || time.Now().After(e.expiresAt) {
		return 0, core.ErrNoNonce
	}

	return e.nonce, nil
}
