package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasktrack/todo-api/internal/core/domain"
	"github.com/tasktrack/todo-api/internal/core/ports"
)

// AuthService implements registration, login and identity resolution.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	cache  ports.IdentityCache // optional
	log    zerolog.Logger
}

// NewAuthService wires the service. cache may be nil.
func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	cache ports.IdentityCache,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, cache: cache, log: log}
}

// Register creates a USER account and returns a token for it. Input shape is
// validated by the transport layer before this is called.
func (s *AuthService) Register(ctx context.Context, email, password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	created, err := s.repo.Save(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			s.log.Info().Str("email", email).Msg("registration rejected: email taken")
			return "", domain.ErrDuplicateEmail
		}
		return "", fmt.Errorf("register: save user: %w", err)
	}

	token, err := s.tokens.Issue(created.Email)
	if err != nil {
		return "", fmt.Errorf("register: issue token: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	return token, nil
}

// Login verifies the credentials and returns a fresh token. An unknown email
// yields domain.ErrUserNotFound and a wrong password domain.ErrInvalidCredentials;
// the HTTP layer renders both identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Info().Str("email", email).Msg("login failed: unknown email")
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("login: find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Info().Str("email", email).Msg("login failed: password mismatch")
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("login: issue token: %w", err)
	}

	s.log.Debug().Str("user_id", user.ID).Msg("login succeeded")
	return token, nil
}

// ResolveIdentity returns the principal for a verified token subject.
func (s *AuthService) ResolveIdentity(ctx context.Context, email string) (domain.Identity, error) {
	if s.cache != nil {
		id, ok, err := s.cache.Get(ctx, email)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("identity cache read failed, falling back to store")
		case ok:
			return id, nil
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Identity{}, domain.ErrUserNotFound
		}
		return domain.Identity{}, fmt.Errorf("resolve identity: %w", err)
	}

	id := user.Identity()
	if s.cache != nil {
		if err := s.cache.Set(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("user_id", id.UserID).Msg("identity cache write failed")
		}
	}
	return id, nil
}
