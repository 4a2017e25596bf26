package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tasktrack/todo-api/internal/core/domain"
)

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	users   map[string]*domain.User
	nextID  int
	finds   int
	findErr error // if set, FindByEmail returns this error
	saveErr error // if set, Save returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrDuplicateEmail
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		r.nextID++
		copy.ID = fmt.Sprintf("user-%d", r.nextID)
	}
	r.users[copy.Email] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.finds++
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// stubHasher is reversible on purpose; real hashing is covered in the security package.
type stubHasher struct {
	err error
}

func (h stubHasher) Hash(plaintext string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + plaintext, nil
}

func (h stubHasher) Verify(plaintext, hash string) bool {
	return hash == "hashed:"+plaintext
}

type stubTokens struct {
	issued []string
}

func (t *stubTokens) Issue(subject string) (string, error) {
	t.issued = append(t.issued, subject)
	return "token:" + subject, nil
}

func (t *stubTokens) Verify(token string) (string, error) {
	subject, ok := strings.CutPrefix(token, "token:")
	if !ok {
		return "", domain.ErrTokenInvalid
	}
	return subject, nil
}

type stubIdentityCache struct {
	entries map[string]domain.Identity
	getErr  error
	sets    int
}

func newStubIdentityCache() *stubIdentityCache {
	return &stubIdentityCache{entries: make(map[string]domain.Identity)}
}

func (c *stubIdentityCache) Get(_ context.Context, email string) (domain.Identity, bool, error) {
	if c.getErr != nil {
		return domain.Identity{}, false, c.getErr
	}
	id, ok := c.entries[email]
	return id, ok, nil
}

func (c *stubIdentityCache) Set(_ context.Context, id domain.Identity) error {
	c.sets++
	c.entries[id.Email] = id
	return nil
}

func newTestAuthService(repo *stubUserRepo) (*AuthService, *stubTokens) {
	tokens := &stubTokens{}
	return NewAuthService(repo, stubHasher{}, tokens, nil, discardLogger), tokens
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo)

	token, err := svc.Register(context.Background(), "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if token != "token:alice@example.com" {
		t.Fatalf("unexpected token %q", token)
	}
	if len(tokens.issued) != 1 || tokens.issued[0] != "alice@example.com" {
		t.Fatalf("token must be issued for the email, got %v", tokens.issued)
	}

	stored := repo.users["alice@example.com"]
	if stored == nil {
		t.Fatal("expected user to be stored")
	}
	if stored.PasswordHash == "pass123" {
		t.Fatal("expected password to be hashed")
	}
	if stored.Role != domain.RoleUser {
		t.Fatalf("expected default role USER, got %s", stored.Role)
	}
	if stored.ID == "" || stored.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at to be set: %+v", stored)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), "bob@example.com", "pass"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob@example.com", "pass2"); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one stored user, got %d", len(repo.users))
	}
	if repo.users["bob@example.com"].PasswordHash != "hashed:pass" {
		t.Fatal("second registration must not overwrite the first record")
	}
}

func TestAuthService_Register_EmailIsCaseSensitive(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	_, _ = svc.Register(context.Background(), "carol@example.com", "pass")
	if _, err := svc.Register(context.Background(), "Carol@example.com", "pass"); err != nil {
		t.Fatalf("differently cased email must be a distinct account: %v", err)
	}
}

func TestAuthService_Register_HashError(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, stubHasher{err: errors.New("too long")}, &stubTokens{}, nil, discardLogger)

	if _, err := svc.Register(context.Background(), "dan@example.com", "pass"); err == nil {
		t.Fatal("expected hashing error to propagate")
	}
	if len(repo.users) != 0 {
		t.Fatal("no user must be stored when hashing fails")
	}
}

func TestAuthService_Register_StoreError(t *testing.T) {
	repo := newStubUserRepo()
	repo.saveErr = errors.New("db unavailable")
	svc, tokens := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), "erin@example.com", "pass")
	if err == nil || errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected generic store error, got %v", err)
	}
	if len(tokens.issued) != 0 {
		t.Fatal("no token may be issued when the store fails")
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), "carol@example.com", "s3cret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token != "token:carol@example.com" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo)

	_, _ = svc.Register(context.Background(), "a@x.com", "right")
	token, err := svc.Login(context.Background(), "a@x.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if token != "" {
		t.Fatalf("expected no token, got %q", token)
	}
	if len(tokens.issued) != 1 {
		t.Fatalf("only the registration token may be issued, got %v", tokens.issued)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_StoreError(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("connection reset")
	svc, _ := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), "a@x.com", "pass")
	if err == nil || errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("store failure must not be masked as a credential error, got %v", err)
	}
}

func TestAuthService_ResolveIdentity(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)
	_, _ = svc.Register(context.Background(), "frank@example.com", "pass")

	id, err := svc.ResolveIdentity(context.Background(), "frank@example.com")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	want := domain.Identity{UserID: repo.users["frank@example.com"].ID, Email: "frank@example.com", Role: domain.RoleUser}
	if id != want {
		t.Fatalf("got %+v, want %+v", id, want)
	}

	if _, err := svc.ResolveIdentity(context.Background(), "nobody@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_ResolveIdentity_UsesCache(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubIdentityCache()
	svc := NewAuthService(repo, stubHasher{}, &stubTokens{}, cache, discardLogger)
	_, _ = svc.Register(context.Background(), "gina@example.com", "pass")
	repo.finds = 0

	first, err := svc.ResolveIdentity(context.Background(), "gina@example.com")
	if err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}
	second, err := svc.ResolveIdentity(context.Background(), "gina@example.com")
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	if first != second {
		t.Fatalf("cached identity differs: %+v vs %+v", first, second)
	}
	if repo.finds != 1 {
		t.Fatalf("expected one store lookup, got %d", repo.finds)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}
}

func TestAuthService_ResolveIdentity_CacheErrorFallsBack(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubIdentityCache()
	cache.getErr = errors.New("redis down")
	svc := NewAuthService(repo, stubHasher{}, &stubTokens{}, cache, discardLogger)
	_, _ = svc.Register(context.Background(), "hank@example.com", "pass")

	id, err := svc.ResolveIdentity(context.Background(), "hank@example.com")
	if err != nil {
		t.Fatalf("expected store fallback, got %v", err)
	}
	if id.Email != "hank@example.com" {
		t.Fatalf("unexpected identity %+v", id)
	}
}
