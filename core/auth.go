package core

import "time"

// Session represents an authenticated session carried by a bearer token
type Session struct {
	Address   string    // Canonical Ethereum address of the user
	SessionID string    // Opaque client-supplied correlation string
	IssuedAt  time.Time // When the token was issued
	ExpiresAt time.Time // When the token expires
}

// LoginResult is the event published when a login or registration completes
type LoginResult struct {
	Session string `json:"session"`
	Address string `json:"address"`
	Name    string `json:"name"`
}
