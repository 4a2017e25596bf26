package handler

import "github.com/tasktrack/todo-api/internal/core/domain"

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,notblank,maxbytes=72"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// todoRequest has no owner field: any owner_id in the body is dropped by Bind.
type todoRequest struct {
	Title     string `json:"title" validate:"notblank,max=255"`
	Completed bool   `json:"completed"`
}

type meResponse struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	Authorities []string    `json:"authorities"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
