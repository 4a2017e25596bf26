package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tasktrack/todo-api/internal/core/domain"
	"github.com/tasktrack/todo-api/internal/core/ports"
)

var _ ports.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Save inserts a new account or updates an existing one by ID.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	const query = `
		INSERT INTO users (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email, password_hash = EXCLUDED.password_hash, role = EXCLUDED.role`

	saved := *user
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	saved.CreatedAt = saved.CreatedAt.UTC()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.db.Exec(ctx, query, saved.ID, saved.Email, saved.PasswordHash, string(saved.Role), saved.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("save user: %w", err)
	}
	return &saved, nil
}

// FindByEmail matches the email exactly.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT id, email, password_hash, role, created_at FROM users WHERE email = $1`

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		u    domain.User
		role string
	)
	err := r.db.QueryRow(ctx, query, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u.Role, err = domain.ParseRole(role); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", u.ID, err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
