package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/client-registry/internal/api/handler"
	"github.com/99minutos/client-registry/internal/core/ports"
	"github.com/99minutos/client-registry/internal/infrastructure/db/mongo"
	"github.com/99minutos/client-registry/internal/infrastructure/db/postgres"
	"github.com/99minutos/client-registry/internal/pkg/config"
)

// stores bundles the repositories of the selected driver with its
// lifecycle hooks.
type stores struct {
	clients ports.ClientRepository
	users   ports.UserRepository
	roles   ports.RoleRepository

	check   handler.DependencyCheck
	migrate func(ctx context.Context) error
	seed    func(ctx context.Context, roles ...string) error
	close   func(ctx context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return nil, err
		}
		return postgresStores(pool), nil
	case config.StoreMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		return mongoStores(client, db), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func mongoStores(client *mongodriver.Client, db *mongodriver.Database) *stores {
	clients := mongo.NewClientRepository(db)
	users := mongo.NewUserRepository(db)
	roles := mongo.NewRoleRepository(db)

	return &stores{
		clients: clients,
		users:   users,
		roles:   roles,
		check: handler.DependencyCheck{
			Name: "mongodb",
			Ping: func(ctx context.Context) error { return client.Ping(ctx, nil) },
		},
		migrate: func(ctx context.Context) error {
			if err := clients.EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("clients indexes: %w", err)
			}
			if err := users.EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("users indexes: %w", err)
			}
			if err := roles.EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("roles indexes: %w", err)
			}
			return nil
		},
		seed:  roles.Seed,
		close: client.Disconnect,
	}
}

func postgresStores(pool *pgxpool.Pool) *stores {
	roles := postgres.NewRoleRepository(pool)
	return &stores{
		clients: postgres.NewClientRepository(pool),
		users:   postgres.NewUserRepository(pool),
		roles:   roles,
		check:   handler.DependencyCheck{Name: "postgres", Ping: pool.Ping},
		migrate: func(ctx context.Context) error { return postgres.Migrate(ctx, pool) },
		seed:    roles.Seed,
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}
}
