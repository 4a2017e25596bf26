package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tasktrack/todo-api/internal/core/domain"
)

// MinKeyLength is the shortest HS256 key accepted, in bytes.
const MinKeyLength = 32

// DefaultTokenTTL is the lifetime of an issued token.
const DefaultTokenTTL = 24 * time.Hour

// JWTService implements ports.TokenService with HS256 signed JWTs whose
// subject is the account email. It holds no mutable state.
type JWTService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewJWTService creates a token service signing with key. ttl <= 0 selects DefaultTokenTTL.
func NewJWTService(key []byte, ttl time.Duration) (*JWTService, error) {
	if len(key) < MinKeyLength {
		return nil, fmt.Errorf("jwt key must be at least %d bytes, got %d", MinKeyLength, len(key))
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTService{key: key, ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of the service reading the current time from now.
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	clone := *s
	clone.now = now
	return &clone
}

// Issue signs a token for subject valid from now until now+ttl.
func (s *JWTService) Issue(subject string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the subject.
// Failures are domain.ErrTokenMalformed, domain.ErrTokenExpired or
// domain.ErrTokenInvalid.
func (s *JWTService) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "", domain.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "", fmt.Errorf("%w: bad signature", domain.ErrTokenInvalid)
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", domain.ErrTokenExpired
	default:
		return "", fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}

	// Valid only while now < exp, independent of the parser's own comparison.
	if claims.ExpiresAt == nil || !s.now().Before(claims.ExpiresAt.Time) {
		return "", domain.ErrTokenExpired
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", domain.ErrTokenInvalid)
	}
	return claims.Subject, nil
}
