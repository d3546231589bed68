package noncestore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/layer-3/anteroom/core"
	"github.com/layer-3/anteroom/ports"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis implementation of the NonceStore interface.
// The cache is shared, so every instance of the gateway agrees on the single
// live nonce per address.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a new Redis nonce store
func NewRedisStore(client *redis.Client) ports.NonceStore {
	return &RedisStore{
		client: client,
		prefix: "nonce:",
		ttl:    DefaultTTL,
	}
}

// Issue generates a fresh nonce and stores it under the canonical address,
// replacing any previous one. The SET is atomic, so concurrent issues for the
// same address resolve last-writer-wins.
func (s *RedisStore) Issue(ctx context.Context, address string) (int, error) {
	nonce, err := randomNonce()
	if err != nil {
		return 0, err
	}

	key := s.prefix + core.CanonicalAddress(address)
	if err := s.client.Set(ctx, key, strconv.Itoa(nonce), s.ttl).Err(); err != nil {
		return 0, fmt.Errorf("failed to store nonce: %w", err)
	}

	return nonce, nil
}

// Peek returns the live nonce for the address. Expiry is enforced by Redis;
// a missing key means no nonce was ever issued or it has expired.
func (s *RedisStore) Peek(ctx context.Context, address string) (int, error) {
	key := s.prefix + core.CanonicalAddress(address)

	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, core.ErrNoNonce
		}
		return 0, fmt.Errorf("failed to read nonce: %w", err)
	}

	nonce, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("corrupt nonce value %q: %w", val, err)
	}

	return nonce, nil
}
