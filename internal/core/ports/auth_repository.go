package ports

import (
	"context"

	"github.com/tasktrack/todo-api/internal/core/domain"
)

// UserRepository persists credential records keyed by email.
type UserRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Save assigns an ID on first save and returns domain.ErrDuplicateEmail
	// when the email is taken.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
}

// IdentityCache stores resolved identities by email. A miss is reported as
// (zero, false, nil).
type IdentityCache interface {
	Get(ctx context.Context, email string) (domain.Identity, bool, error)
	Set(ctx context.Context, id domain.Identity) error
}
