package ports

import (
	"context"

	"github.com/tasktrack/todo-api/internal/core/domain"
)

// TodoInput carries the client-editable fields of a todo. Ownership is never
// taken from client input.
type TodoInput struct {
	Title     string
	Completed bool
}

// TodoService defines the owner-scoped todo use cases.
type TodoService interface {
	List(ctx context.Context, who domain.Identity) ([]*domain.Todo, error)
	Create(ctx context.Context, who domain.Identity, input TodoInput) (*domain.Todo, error)
	Get(ctx context.Context, who domain.Identity, id string) (*domain.Todo, error)
	Update(ctx context.Context, who domain.Identity, id string, input TodoInput) (*domain.Todo, error)
	Delete(ctx context.Context, who domain.Identity, id string) error
}
