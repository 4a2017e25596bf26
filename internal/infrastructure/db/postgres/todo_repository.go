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

var _ ports.TodoRepository = (*TodoRepository)(nil)

const todoColumns = `id, title, completed, owner_id, created_at, updated_at`

type TodoRepository struct {
	db DBTX
}

func NewTodoRepository(db DBTX) *TodoRepository {
	return &TodoRepository{db: db}
}

// FindByID reports ids that are not UUIDs as domain.ErrTodoNotFound.
func (r *TodoRepository) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	if !validID(id) {
		return nil, domain.ErrTodoNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	todo, err := scanTodo(r.db.QueryRow(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}
	return todo, nil
}

// Save upserts by ID. The owner of an existing row is never rewritten.
func (r *TodoRepository) Save(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	const query = `
		INSERT INTO todos (` + todoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, completed = EXCLUDED.completed, updated_at = EXCLUDED.updated_at`

	saved := *todo
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	} else if !validID(saved.ID) {
		return nil, domain.ErrTodoNotFound
	}
	saved.CreatedAt = saved.CreatedAt.UTC()
	saved.UpdatedAt = saved.UpdatedAt.UTC()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.Exec(ctx, query, saved.ID, saved.Title, saved.Completed, saved.OwnerID, saved.CreatedAt, saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("save todo: %w", err)
	}
	return &saved, nil
}

func (r *TodoRepository) DeleteByID(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM todos WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists todo: %w", err)
	}
	return exists, nil
}

// FindAllByOwner returns the owner's todos oldest first.
func (r *TodoRepository) FindAllByOwner(ctx context.Context, ownerID string) ([]*domain.Todo, error) {
	if !validID(ownerID) {
		return []*domain.Todo{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+todoColumns+` FROM todos WHERE owner_id = $1 ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("find todos: %w", err)
	}
	defer rows.Close()

	todos := []*domain.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return todos, nil
}

func scanTodo(row pgx.Row) (*domain.Todo, error) {
	var t domain.Todo
	if err := row.Scan(&t.ID, &t.Title, &t.Completed, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

func validID(id string) bool {
	return uuid.Validate(id) == nil
}
