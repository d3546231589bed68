package noncestore

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// DefaultTTL is how long an unused nonce stays live.
const DefaultTTL = 5 * time.Minute

// nonceRange bounds the random nonce value: [0, 10000).
const nonceRange = 10000

func randomNonce() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(nonceRange))
	if err != nil {
		return 0, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return int(n.Int64()), nil
}
