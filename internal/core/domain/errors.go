package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")

	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenMalformed is a structural failure; it also matches ErrTokenInvalid.
	ErrTokenMalformed = fmt.Errorf("%w: malformed", ErrTokenInvalid)

	ErrTodoNotFound = errors.New("todo not found")
	ErrForbidden    = errors.New("access forbidden")
)
