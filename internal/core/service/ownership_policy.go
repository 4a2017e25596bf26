package service

import "github.com/tasktrack/todo-api/internal/core/domain"

// Authorize decides whether who may read or mutate todo. A missing todo is
// reported before ownership is considered.
func Authorize(who domain.Identity, todo *domain.Todo) error {
	if todo == nil {
		return domain.ErrTodoNotFound
	}
	if who.UserID == "" || todo.OwnerID != who.UserID {
		return domain.ErrForbidden
	}
	return nil
}
