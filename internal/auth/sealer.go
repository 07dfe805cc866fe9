package auth

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

const (
	tokenIssuer   = "catalog-server"
	tokenAudience = "catalog-web"
)

// ErrInvalidToken is returned for any cookie value that does not open.
var ErrInvalidToken = errors.New("invalid session token")

// SessionSealer wraps session IDs into PASETO v4.local tokens for the session cookie.
// The token is encrypted and authenticated, so clients can neither read nor forge it.
// It carries no authority by itself: the server-side session row is the source of truth.
type SessionSealer struct {
	key paseto.V4SymmetricKey
	now func() time.Time
}

// NewSessionSealer creates a sealer from a 32-byte key.
func NewSessionSealer(key []byte) (*SessionSealer, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("session key must be %d bytes, got %d", keyLength, len(key))
	}
	k, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("create PASETO symmetric key: %w", err)
	}
	return &SessionSealer{key: k, now: time.Now}, nil
}

// Seal returns the cookie value for sessionID, valid until expiresAt.
func (s *SessionSealer) Seal(sessionID string, expiresAt time.Time) string {
	now := s.now()

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(sessionID)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(expiresAt)

	return token.V4Encrypt(s.key, nil)
}

// Open returns the session ID sealed in token.
// Tampered, foreign, or expired tokens all yield ErrInvalidToken.
func (s *SessionSealer) Open(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ValidAt(s.now()))

	parsed, err := parser.ParseV4Local(s.key, token, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sessionID, err := parsed.GetSubject()
	if err != nil || sessionID == "" {
		return "", ErrInvalidToken
	}
	return sessionID, nil
}
