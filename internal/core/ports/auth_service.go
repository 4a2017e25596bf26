package ports

import (
	"context"

	"github.com/tasktrack/todo-api/internal/core/domain"
)

// PasswordHasher hashes and verifies passwords with a salted adaptive algorithm.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenService issues and verifies signed bearer tokens whose subject is the
// account email.
type TokenService interface {
	Issue(subject string) (string, error)
	// Verify returns the subject, or domain.ErrTokenExpired / domain.ErrTokenInvalid.
	Verify(token string) (string, error)
}

// IdentityResolver maps a verified token subject to the current principal.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, email string) (domain.Identity, error)
}

type AuthService interface {
	IdentityResolver
	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
}
