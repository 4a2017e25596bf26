package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tasktrack/todo-api/internal/api/metrics"
	"github.com/tasktrack/todo-api/internal/core/domain"
	"github.com/tasktrack/todo-api/internal/core/ports"
)

type TodoHandler struct {
	todos ports.TodoService
}

func NewTodoHandler(todos ports.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

// List returns the caller's todos.
//
// @Summary      List todos
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Todo
// @Failure      401  {object}  errorResponse
// @Router       /api/todos [get]
func (h *TodoHandler) List(c echo.Context) error {
	who, err := currentIdentity(c)
	if err != nil {
		return err
	}

	todos, err := h.todos.List(c.Request().Context(), who)
	recordTodo("list", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, todos)
}

// Create adds a todo owned by the caller.
//
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      todoRequest  true  "Todo"
// @Success      201   {object}  domain.Todo
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/todos [post]
func (h *TodoHandler) Create(c echo.Context) error {
	who, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req todoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	todo, err := h.todos.Create(c.Request().Context(), who, ports.TodoInput{Title: req.Title, Completed: req.Completed})
	recordTodo("create", err)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, "/api/todos/"+todo.ID)
	return c.JSON(http.StatusCreated, todo)
}

// Get returns one of the caller's todos.
//
// @Summary      Get a todo
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  domain.Todo
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/todos/{id} [get]
func (h *TodoHandler) Get(c echo.Context) error {
	who, err := currentIdentity(c)
	if err != nil {
		return err
	}

	todo, err := h.todos.Get(c.Request().Context(), who, c.Param("id"))
	recordTodo("get", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, todo)
}

// Update replaces title and completion. The owner never changes.
//
// @Summary      Update a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Todo ID"
// @Param        body  body      todoRequest  true  "Todo"
// @Success      200   {object}  domain.Todo
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/todos/{id} [put]
func (h *TodoHandler) Update(c echo.Context) error {
	who, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req todoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	todo, err := h.todos.Update(c.Request().Context(), who, c.Param("id"), ports.TodoInput{Title: req.Title, Completed: req.Completed})
	recordTodo("update", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, todo)
}

// Delete removes one of the caller's todos.
//
// @Summary      Delete a todo
// @Tags         todos
// @Security     BearerAuth
// @Param        id   path      string  true  "Todo ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/todos/{id} [delete]
func (h *TodoHandler) Delete(c echo.Context) error {
	who, err := currentIdentity(c)
	if err != nil {
		return err
	}

	err = h.todos.Delete(c.Request().Context(), who, c.Param("id"))
	recordTodo("delete", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func recordTodo(operation string, err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrForbidden):
		result = "forbidden"
	case errors.Is(err, domain.ErrTodoNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	metrics.TodoOperationsTotal.WithLabelValues(operation, result).Inc()
}
