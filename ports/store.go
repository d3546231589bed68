package ports

import "context"

// AccountStore is the durable address -> display name mapping.
// Both methods expect the canonical (lowercased) address form.
type AccountStore interface {
	// Name returns the display name registered for the address, or
	// core.ErrNoAccount when none exists.
	Name(ctx context.Context, address string) (string, error)

	// Create registers a display name for the address. Returns
	// core.ErrAccountExists when the address already has one; the insert
	// must be atomic under concurrent callers.
	Create(ctx context.Context, address, name string) error
}
