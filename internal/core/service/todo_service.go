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

// TodoService implements the owner-scoped todo use cases.
type TodoService struct {
	repo ports.TodoRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewTodoService(repo ports.TodoRepository, log zerolog.Logger) *TodoService {
	return &TodoService{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// List returns only the caller's todos; filtering happens in the query.
func (s *TodoService) List(ctx context.Context, who domain.Identity) ([]*domain.Todo, error) {
	if who.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	todos, err := s.repo.FindAllByOwner(ctx, who.UserID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// Create stores a new todo owned by the caller.
func (s *TodoService) Create(ctx context.Context, who domain.Identity, input ports.TodoInput) (*domain.Todo, error) {
	if who.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	now := s.now()
	todo := &domain.Todo{
		Title:     input.Title,
		Completed: input.Completed,
		OwnerID:   who.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	saved, err := s.repo.Save(ctx, todo)
	if err != nil {
		s.log.Error().Err(err).Str("owner_id", who.UserID).Msg("failed to create todo")
		return nil, fmt.Errorf("create todo: %w", err)
	}
	s.log.Info().Str("todo_id", saved.ID).Str("owner_id", saved.OwnerID).Msg("todo created")
	return saved, nil
}

// Get returns the todo if the caller owns it.
func (s *TodoService) Get(ctx context.Context, who domain.Identity, id string) (*domain.Todo, error) {
	return s.loadOwned(ctx, who, id)
}

// Update replaces the editable fields. The stored owner is kept regardless of input.
func (s *TodoService) Update(ctx context.Context, who domain.Identity, id string, input ports.TodoInput) (*domain.Todo, error) {
	existing, err := s.loadOwned(ctx, who, id)
	if err != nil {
		return nil, err
	}

	// Save replaces by id, so a row deleted since the read would be recreated.
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	if !exists {
		return nil, domain.ErrTodoNotFound
	}

	updated := *existing
	updated.Title = input.Title
	updated.Completed = input.Completed
	updated.UpdatedAt = s.now()

	saved, err := s.repo.Save(ctx, &updated)
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	s.log.Info().Str("todo_id", saved.ID).Msg("todo updated")
	return saved, nil
}

// Delete removes the todo if the caller owns it.
func (s *TodoService) Delete(ctx context.Context, who domain.Identity, id string) error {
	if _, err := s.loadOwned(ctx, who, id); err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	s.log.Info().Str("todo_id", id).Str("owner_id", who.UserID).Msg("todo deleted")
	return nil
}

func (s *TodoService) loadOwned(ctx context.Context, who domain.Identity, id string) (*domain.Todo, error) {
	if who.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load todo: %w", err)
	}
	if err := Authorize(who, todo); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			s.log.Warn().Str("todo_id", id).Str("user_id", who.UserID).Msg("cross-owner access denied")
		}
		return nil, err
	}
	return todo, nil
}
