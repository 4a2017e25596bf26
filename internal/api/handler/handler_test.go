package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tasktrack/todo-api/internal/core/domain"
	"github.com/tasktrack/todo-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, email, password string) (string, error)
	loginFn    func(ctx context.Context, email, password string) (string, error)
}

func (s *stubAuthService) Register(ctx context.Context, email, password string) (string, error) {
	return s.registerFn(ctx, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) ResolveIdentity(context.Context, string) (domain.Identity, error) {
	return domain.Identity{}, domain.ErrUserNotFound
}

type stubTodoService struct {
	gotWho   domain.Identity
	gotID    string
	gotInput ports.TodoInput
	todo     *domain.Todo
	err      error
}

func (s *stubTodoService) List(_ context.Context, who domain.Identity) ([]*domain.Todo, error) {
	s.gotWho = who
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Todo{s.todo}, nil
}

func (s *stubTodoService) Create(_ context.Context, who domain.Identity, in ports.TodoInput) (*domain.Todo, error) {
	s.gotWho, s.gotInput = who, in
	if s.err != nil {
		return nil, s.err
	}
	t := *s.todo
	t.Title, t.Completed, t.OwnerID = in.Title, in.Completed, who.UserID
	return &t, nil
}

func (s *stubTodoService) Get(_ context.Context, who domain.Identity, id string) (*domain.Todo, error) {
	s.gotWho, s.gotID = who, id
	return s.todo, s.err
}

func (s *stubTodoService) Update(_ context.Context, who domain.Identity, id string, in ports.TodoInput) (*domain.Todo, error) {
	s.gotWho, s.gotID, s.gotInput = who, id, in
	if s.err != nil {
		return nil, s.err
	}
	return s.todo, nil
}

func (s *stubTodoService) Delete(_ context.Context, who domain.Identity, id string) error {
	s.gotWho, s.gotID = who, id
	return s.err
}

var alice = domain.Identity{UserID: "u1", Email: "alice@example.com", Role: domain.RoleUser}

func newContext(method, target, body string, who *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if who != nil {
		req = req.WithContext(domain.WithIdentity(req.Context(), *who))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, email, password string) (string, error) {
			if email != "alice@example.com" || password != "s3cret!" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "tok-1", nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/auth/register", `{"email":"alice@example.com","password":"s3cret!"}`, nil)

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "tok-1" || len(resp) != 1 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string) (string, error) { return "", domain.ErrDuplicateEmail },
	}
	c, _ := newContext(http.MethodPost, "/api/auth/register", `{"email":"a@x.com","password":"pw"}`, nil)

	if err := NewAuthHandler(stub).Register(c); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string) (string, error) {
			t.Fatalf("service must not be called on invalid input")
			return "", nil
		},
	}

	cases := map[string]string{
		`{"email":"not-an-email","password":"pw"}`: "email",
		`{"email":"a@x.com"}`:                     "password",
		`{"password":"pw"}`:                       "email",
		`{"email":"a@x.com","password":"` + strings.Repeat("p", 73) + `"}`: "password",
		`{"email":"a@x.com","password":"   "}`: "password",
	}
	for body, field := range cases {
		c, _ := newContext(http.MethodPost, "/api/auth/register", body, nil)
		err := NewAuthHandler(stub).Register(c)

		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", body, err)
		}
		if _, ok := ve.Fields[field]; !ok {
			t.Fatalf("%s: expected field %q in %+v", body, field, ve.Fields)
		}
	}
}

func TestAuthHandler_Register_BlankPassword(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string) (string, error) {
			t.Fatalf("service must not be called for a blank password")
			return "", nil
		},
	}

	c, _ := newContext(http.MethodPost, "/api/auth/register", `{"email":"a@x.com","password":"   "}`, nil)
	err := NewAuthHandler(stub).Register(c)

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if got := ve.Fields["password"]; got != "Password is required" {
		t.Fatalf("unexpected password message %q", got)
	}
}

func TestAuthHandler_Register_BadJSON(t *testing.T) {
	stub := &stubAuthService{}
	c, _ := newContext(http.MethodPost, "/api/auth/register", `{"email":`, nil)

	err := NewAuthHandler(stub).Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (string, error) {
			switch {
			case email == "alice@example.com" && password == "right":
				return "tok-2", nil
			case email == "alice@example.com":
				return "", domain.ErrInvalidCredentials
			default:
				return "", domain.ErrUserNotFound
			}
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"right"}`, nil)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"token":"tok-2"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	c, _ = newContext(http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"wrong"}`, nil)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	c, _ = newContext(http.MethodPost, "/api/auth/login", `{"email":"bob@example.com","password":"any"}`, nil)
	if err := h.Login(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestMe(t *testing.T) {
	admin := domain.Identity{UserID: "u9", Email: "root@example.com", Role: domain.RoleAdmin}
	c, rec := newContext(http.MethodGet, "/api/me", "", &admin)

	if err := Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp meResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "u9" || resp.Email != "root@example.com" || resp.Role != domain.RoleAdmin {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if len(resp.Authorities) != 1 || resp.Authorities[0] != "ROLE_ADMIN" {
		t.Fatalf("unexpected authorities: %v", resp.Authorities)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("identity leaked credential fields: %s", rec.Body.String())
	}
}

func TestMe_Unauthenticated(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/api/me", "", nil)
	if err := Me(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRoot(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/", "", nil)
	if err := Root(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"service":"todo-api"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestValidator_PasswordLimitCountsBytes(t *testing.T) {
	v := NewValidator()

	// 36 two-byte runes: 72 bytes, accepted.
	ok := credentialsRequest{Email: "a@x.com", Password: strings.Repeat("é", 36)}
	if err := v.Validate(&ok); err != nil {
		t.Fatalf("72-byte password rejected: %v", err)
	}

	// 37 two-byte runes: 74 bytes, rejected even though it is only 37 characters.
	long := credentialsRequest{Email: "a@x.com", Password: strings.Repeat("é", 37)}
	err := v.Validate(&long)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Fields["password"] != "password must be at most 72 bytes" {
		t.Fatalf("expected byte-limit error, got %v", err)
	}
}
