package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/layer-3/anteroom/core"
	"github.com/layer-3/anteroom/internal/eth"
	"github.com/layer-3/anteroom/ports"
)

// ChallengeMessage builds the exact string the wallet signs for a nonce.
// It must match byte-for-byte between the client and the verifier.
func ChallengeMessage(nonce int) string {
	return fmt.Sprintf("I'm signing my one-time nonce: %d", nonce)
}

// AuthService composes the nonce store, signature recovery, account store,
// tokenizer and event publisher into the authentication protocol.
type AuthService struct {
	nonces    ports.NonceStore
	accounts  ports.AccountStore
	tokenizer ports.Tokenizer
	eventPub  ports.EventPublisher
	logger    *slog.Logger

	tokenTTL time.Duration
}

// NewAuthService creates a new authentication service
func NewAuthService(
	nonces ports.NonceStore,
	accounts ports.AccountStore,
	tokenizer ports.Tokenizer,
	eventPub ports.EventPublisher,
) *AuthService {
	return &AuthService{
		nonces:    nonces,
		accounts:  accounts,
		tokenizer: tokenizer,
		eventPub:  eventPub,
		logger:    slog.Default().With("component", "auth"),
		tokenTTL:  5 * time.Minute,
	}
}

// PrepareNonce issues a fresh one-time nonce for the address, invalidating
// any previous one. No authentication required.
func (s *AuthService) PrepareNonce(ctx context.Context, address string) (int, error) {
	if !core.ValidAddress(address) {
		return 0, core.ErrInvalidAddress
	}

	return s.nonces.Issue(ctx, address)
}

// Authenticate verifies a signature over the address's live nonce and issues
// a bearer token bound to the client's session identifier. The registered
// display name rides along when the address already has an account.
//
// A missing nonce, a malformed signature and a signature recovering the
// wrong address all fail with the same core.ErrSignatureVerification so a
// caller cannot probe which check rejected it.
func (s *AuthService) Authenticate(ctx context.Context, address, signature, sessionID string) (string, string, error) {
	if !core.ValidAddress(address) {
		return "", "", core.ErrInvalidAddress
	}

	nonce, err := s.nonces.Peek(ctx, address)
	if err != nil {
		if errors.Is(err, core.ErrNoNonce) {
			return "", "", core.ErrSignatureVerification
		}
		return "", "", fmt.Errorf("failed to read nonce: %w", err)
	}

	sigBytes, err := hexutil.Decode(signature)
	if err != nil {
		return "", "", core.ErrSignatureVerification
	}

	recovered, err := eth.RecoverPersonalSigner(ChallengeMessage(nonce), sigBytes)
	if err != nil {
		return "", "", core.ErrSignatureVerification
	}

	if !core.SameAddress(recovered.Hex(), address) {
		return "", "", core.ErrSignatureVerification
	}

	// Rotate the nonce so the signature that just authenticated cannot be
	// replayed.
	if _, err := s.nonces.Issue(ctx, address); err != nil {
		return "", "", fmt.Errorf("failed to rotate nonce: %w", err)
	}

	canonical := core.CanonicalAddress(address)

	name, err := s.accounts.Name(ctx, canonical)
	if err != nil && !errors.Is(err, core.ErrNoAccount) {
		return "", "", fmt.Errorf("failed to look up account: %w", err)
	}

	now := time.Now()
	session := &core.Session{
		Address:   canonical,
		SessionID: sessionID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.tokenTTL),
	}

	token, err := s.tokenizer.SessionToToken(session)
	if err != nil {
		return "", "", fmt.Errorf("failed to create token: %w", err)
	}

	return token, name, nil
}

// ValidateToken parses and validates a bearer token
func (s *AuthService) ValidateToken(token string) (*core.Session, error) {
	return s.tokenizer.TokenToSession(token)
}

// Login completes the flow for a registered address: it looks up the display
// name and notifies the external session layer. Fails with
// core.ErrRequireRegister when the address has no account yet.
func (s *AuthService) Login(ctx context.Context, session *core.Session) error {
	name, err := s.accounts.Name(ctx, session.Address)
	if err != nil {
		if errors.Is(err, core.ErrNoAccount) {
			return core.ErrRequireRegister
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	s.notifyLogin(ctx, session, name)
	return nil
}

// Register stores the display name for the session's address and notifies
// the external session layer. The account store's uniqueness guarantee makes
// this insert-if-absent: the loser of a concurrent race gets
// core.ErrAccountExists.
func (s *AuthService) Register(ctx context.Context, session *core.Session, name string) error {
	if name == "" {
		return core.ErrInvalidName
	}

	if err := s.accounts.Create(ctx, session.Address, name); err != nil {
		return err
	}

	s.notifyLogin(ctx, session, name)
	return nil
}

// notifyLogin publishes the login result. Best effort: by the time we
// publish, the login or registration has already succeeded for the client,
// so a broker failure is logged and swallowed.
func (s *AuthService) notifyLogin(ctx context.Context, session *core.Session, name string) {
	if err := s.eventPub.PublishLoginResult(ctx, session.SessionID, session.Address, name); err != nil {
		s.logger.Warn("failed to publish login result",
			"session", session.SessionID,
			"address", session.Address,
			"error", err)
	}
}
