package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/99minutos/client-registry/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the unique indexes / tables the service relies on",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := bootstrap()
			log := logger.Get()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			st, err := openStores(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.close(context.Background())

			if err := st.migrate(ctx); err != nil {
				return err
			}
			log.Info().Str("driver", cfg.StoreDriver).Msg("schema up to date")
			return nil
		},
	}
}
