package ports

import "github.com/layer-3/anteroom/core"

// Tokenizer converts between sessions and bearer tokens
type Tokenizer interface {
	// SessionToToken produces a signed token carrying the session's claims.
	SessionToToken(session *core.Session) (string, error)

	// TokenToSession validates a token and returns the session it carries.
	// Returns core.ErrInvalidToken when the signature, expiry or claims are
	// invalid.
	TokenToSession(token string) (*core.Session, error)
}
