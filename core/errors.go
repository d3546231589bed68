package core

import "errors"

var (
	// ErrSignatureVerification covers every Authenticate failure: a missing
	// or expired nonce and a signature that recovers the wrong address are
	// deliberately indistinguishable to the caller.
	ErrSignatureVerification = errors.New("signature verification failed")

	ErrInvalidToken    = errors.New("invalid token")
	ErrInvalidAddress  = errors.New("invalid ethereum address")
	ErrNoNonce         = errors.New("no live nonce for address")
	ErrNoAccount       = errors.New("no account for address")
	ErrAccountExists   = errors.New("account already registered")
	ErrInvalidName     = errors.New("display name must not be empty")
	ErrRequireRegister = errors.New("account registration required")
)
