package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/99minutos/client-registry/internal/api"
	"github.com/99minutos/client-registry/internal/api/handler"
	"github.com/99minutos/client-registry/internal/core/service"
	"github.com/99minutos/client-registry/internal/core/validation"
	"github.com/99minutos/client-registry/internal/infrastructure/db/redis"
	"github.com/99minutos/client-registry/internal/infrastructure/events"
	"github.com/99minutos/client-registry/internal/pkg/config"
	"github.com/99minutos/client-registry/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, bootstrap())
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("closing store")
		}
	}()

	if err := st.migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	checks := []handler.DependencyCheck{st.check}

	var rdb *goredis.Client
	if events.UsesRedis(cfg.Events.Provider) {
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		checks = append(checks, handler.DependencyCheck{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}

	publisher, err := events.NewPublisher(ctx, events.Config{
		Provider:        cfg.Events.Provider,
		Stream:          cfg.Events.Stream,
		StreamMaxLen:    cfg.Events.StreamMaxLen,
		PubSubProjectID: cfg.Events.PubSubProjectID,
		PubSubTopicID:   cfg.Events.PubSubTopicID,
	}, rdb, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("closing event publisher")
		}
	}()

	provisioner := service.NewUserProvisioner(st.users, service.NewRoleResolver(st.roles), cfg.DefaultRole, log)
	clients := service.NewClientService(
		st.clients,
		provisioner,
		publisher,
		validation.New(),
		service.ClientServiceOptions{SurfacePublishFailures: cfg.Events.SurfaceFailures},
		log,
	)

	e := api.NewRouter(api.Deps{Clients: clients, Checks: checks, Log: log})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("store", cfg.StoreDriver).
			Str("events", cfg.Events.Provider).
			Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
