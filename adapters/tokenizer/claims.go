package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims combines standard claims with the client session identifier
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"session"`
}
