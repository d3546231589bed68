package ports

import "context"

// NonceStore holds the single live nonce per address, with time-based expiry.
type NonceStore interface {
	// Issue generates a fresh random nonce for the address, replacing any
	// existing one, and stores it with the store's TTL.
	Issue(ctx context.Context, address string) (int, error)

	// Peek returns the live nonce for the address without mutating state.
	// Returns core.ErrNoNonce when no nonce exists or it has expired.
	Peek(ctx context.Context, address string) (int, error)
}
