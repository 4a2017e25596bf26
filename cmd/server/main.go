// Command server runs the todo API.
//
// @title                       Todo API
// @version                     1.0
// @description                 Multi-user todo list with JWT authentication and per-owner access control.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tasktrack/todo-api/internal/api"
	"github.com/tasktrack/todo-api/internal/api/handler"
	"github.com/tasktrack/todo-api/internal/core/ports"
	"github.com/tasktrack/todo-api/internal/core/service"
	"github.com/tasktrack/todo-api/internal/infrastructure/db/redis"
	"github.com/tasktrack/todo-api/internal/infrastructure/security"
	"github.com/tasktrack/todo-api/internal/pkg/config"
	"github.com/tasktrack/todo-api/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "todo-api",
	})

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.close()

	pingers := []handler.Pinger{store.pinger}

	var cache ports.IdentityCache
	if cfg.CacheEnabled() {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		cache = redis.NewIdentityCache(rdb, cfg.Redis.CacheTTL)
		pingers = append(pingers, redis.Pinger{Client: rdb})
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("identity cache enabled")
	}

	key, err := cfg.SigningKey()
	if err != nil {
		return err
	}
	tokens, err := security.NewJWTService(key, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	authService := service.NewAuthService(store.users, security.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, cache, log)
	todoService := service.NewTodoService(store.todos, log)

	e := api.NewRouter(api.Dependencies{
		Auth:         authService,
		Todos:        todoService,
		Tokens:       tokens,
		Pingers:      pingers,
		StrictTokens: cfg.Auth.StrictTokens,
		Logger:       log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.Storage.Driver).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
		return err
	}
	return nil
}

