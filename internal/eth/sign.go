package eth

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// RecoverPersonalSigner recovers the address that signed message with the
// personal-message scheme (EIP-191: the message is prefixed with
// "\x19Ethereum Signed Message:\n" and its length before hashing).
// Wallets emit the recovery id as 27/28; both that and the raw 0/1 form are
// accepted.
func RecoverPersonalSigner(message string, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(signature))
	}

	// SigToPub expects the recovery id in the 0/1 form; don't mutate the
	// caller's slice.
	sig := make([]byte, crypto.SignatureLength)
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pub), nil
}

// SignPersonalMessage signs message with key the way a browser wallet does,
// returning a 65-byte signature with the recovery id in the 27/28 form.
func SignPersonalMessage(message string, key *ecdsa.PrivateKey) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}

	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}
