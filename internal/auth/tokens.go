// Package auth verifies the PASETO session tokens issued by the external
// identity provider. The provider and this API share a v4 symmetric key
// (SESSION_KEY); the provider handles sign-in, sign-up, and magic-link
// delivery, and hands the browser an encrypted session token whose subject
// is the stable user ID. This package only verifies — it never runs login
// flows itself.
package auth

import (
	"encoding/hex"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"

	"github.com/notageng/backend/internal/domain"
)

const (
	tokenIssuer   = "notageng-auth"
	tokenAudience = "notageng-api"

	// PASETO v4 symmetric key requirements.
	keyBytesSize = 32 // 256 bits
	keyHexSize   = 64 // 32 bytes as hex string
)

// TokenService verifies (and, for tests and seeding, mints) session tokens.
type TokenService struct {
	key paseto.V4SymmetricKey
}

// NewTokenService builds a TokenService from the shared session key, given as
// a 64-character hex string.
func NewTokenService(keyHex string) (*TokenService, error) {
	if len(keyHex) != keyHexSize {
		return nil, fmt.Errorf("auth: session key must be exactly %d hex characters (%d bytes), got %d", keyHexSize, keyBytesSize, len(keyHex))
	}

	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("auth: session key is not valid hex: %w", err)
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("auth: build symmetric key: %w", err)
	}

	return &TokenService{key: key}, nil
}

// Verify checks a session token's encryption, issuer, audience, and expiry,
// and returns the user ID from its subject claim. Any failure — malformed
// token, wrong key, expired, non-UUID subject — is reported as
// domain.ErrUnauthenticated; callers treat the request as anonymous.
func (s *TokenService) Verify(token string) (uuid.UUID, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.NotExpired())

	parsed, err := parser.ParseV4Local(s.key, token, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth.TokenService.Verify: %w", domain.ErrUnauthenticated)
	}

	sub, err := parsed.GetSubject()
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth.TokenService.Verify: missing subject: %w", domain.ErrUnauthenticated)
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth.TokenService.Verify: subject is not a user ID: %w", domain.ErrUnauthenticated)
	}

	return userID, nil
}

// Mint issues a session token for userID valid for ttl. In production the
// external identity provider is the issuer; Mint exists for tests and for
// cmd/seed, which need valid tokens without a provider round-trip.
func (s *TokenService) Mint(userID uuid.UUID, ttl time.Duration) string {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(userID.String())
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(ttl))

	return token.V4Encrypt(s.key, nil)
}
