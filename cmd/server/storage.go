package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tasktrack/todo-api/internal/api/handler"
	"github.com/tasktrack/todo-api/internal/core/ports"
	"github.com/tasktrack/todo-api/internal/infrastructure/db/mongo"
	"github.com/tasktrack/todo-api/internal/infrastructure/db/postgres"
	"github.com/tasktrack/todo-api/internal/pkg/config"
)

// store bundles the repositories of the configured driver.
type store struct {
	users  ports.UserRepository
	todos  ports.TodoRepository
	pinger handler.Pinger
	close  func()
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("postgres store ready")
		return &store{
			users:  postgres.NewUserRepository(pool),
			todos:  postgres.NewTodoRepository(pool),
			pinger: postgres.Pinger{Pool: pool},
			close:  pool.Close,
		}, nil

	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo store ready")
		return &store{
			users:  mongo.NewUserRepository(db),
			todos:  mongo.NewTodoRepository(db),
			pinger: mongo.Pinger{Client: client},
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					log.Error().Err(err).Msg("mongo disconnect")
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
