package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/tasktrack/todo-api/internal/api/handler"
	"github.com/tasktrack/todo-api/internal/api/middleware"
	"github.com/tasktrack/todo-api/internal/core/domain"
	"github.com/tasktrack/todo-api/internal/core/ports"

	_ "github.com/tasktrack/todo-api/docs"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Auth         ports.AuthService
	Todos        ports.TodoService
	Tokens       ports.TokenService
	Pingers      []handler.Pinger
	StrictTokens bool
	Logger       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// HTTP metrics go to a per-router registry; /metrics serves it together
	// with the default registry holding the domain counters.
	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "todo_api",
		Subsystem:  "http",
		Registerer: reg,
	}))
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(middleware.Authenticate(middleware.AuthConfig{
		Skipper:  middleware.PublicPaths,
		Tokens:   deps.Tokens,
		Resolver: deps.Auth,
		Strict:   deps.StrictTokens,
		Logger:   deps.Logger,
	}))

	// --- Public ---
	e.GET("/", handler.Root)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	healthHandler := handler.NewHealthHandler(deps.Logger, deps.Pingers...)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	authHandler := handler.NewAuthHandler(deps.Auth)
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)

	// --- Authenticated ---
	// Role gate is per route: group middleware would also wrap echo's 404/405 handlers.
	requireUser := middleware.RequireRole(domain.RoleUser, domain.RoleAdmin)
	secured := e.Group("/api")
	secured.GET("/me", handler.Me, requireUser)

	todoHandler := handler.NewTodoHandler(deps.Todos)
	secured.GET("/todos", todoHandler.List, requireUser)
	secured.POST("/todos", todoHandler.Create, requireUser)
	secured.GET("/todos/:id", todoHandler.Get, requireUser)
	secured.PUT("/todos/:id", todoHandler.Update, requireUser)
	secured.DELETE("/todos/:id", todoHandler.Delete, requireUser)

	return e
}
