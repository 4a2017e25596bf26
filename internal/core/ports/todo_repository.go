package ports

import (
	"context"

	"github.com/tasktrack/todo-api/internal/core/domain"
)

// TodoRepository defines persistence operations for todos.
type TodoRepository interface {
	// FindByID returns domain.ErrTodoNotFound when the id is unknown or malformed.
	FindByID(ctx context.Context, id string) (*domain.Todo, error)
	// Save inserts when ID is empty, otherwise replaces the stored todo.
	Save(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)
	DeleteByID(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
	// FindAllByOwner returns the owner's todos, oldest first.
	FindAllByOwner(ctx context.Context, ownerID string) ([]*domain.Todo, error)
}
