package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/account-service/internal/api/handler"
	"github.com/99minutos/account-service/internal/core/ports"
	"github.com/99minutos/account-service/internal/infrastructure/config"
	"github.com/99minutos/account-service/internal/infrastructure/db/memory"
	"github.com/99minutos/account-service/internal/infrastructure/db/mongo"
	"github.com/99minutos/account-service/internal/infrastructure/db/postgres"
)

const disconnectTimeout = 5 * time.Second

// store bundles the repositories of the selected STORE_DRIVER.
type store struct {
	users ports.UserRepository
	audit ports.AuditRepository
	check handler.Checker
	close func()
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		users := mongo.NewUserRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

		return &store{
			users: users,
			audit: mongo.NewAuditRepository(db),
			check: mongo.NewPinger(db),
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
				defer cancel()
				if err := client.Disconnect(ctx); err != nil {
					log.Error().Err(err).Msg("mongo disconnect")
				}
			},
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("connected to postgres")

		return &store{
			users: postgres.NewUserRepository(pool),
			audit: postgres.NewAuditRepository(pool),
			check: postgres.NewPinger(pool),
			close: pool.Close,
		}, nil

	case config.DriverMemory:
		users := memory.NewUserRepository()
		log.Warn().Msg("using in-memory store, data is lost on restart")

		return &store{
			users: users,
			audit: memory.NewAuditRepository(),
			check: users,
			close: func() {},
		}, nil
	}

	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
