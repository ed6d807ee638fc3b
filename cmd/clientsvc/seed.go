package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/99minutos/client-registry/pkg/logger"
)

func newSeedCmd() *cobra.Command {
	var extra []string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the default role (and any --role) if missing",
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

			roles := append([]string{cfg.DefaultRole}, extra...)
			if err := st.seed(ctx, roles...); err != nil {
				return err
			}
			log.Info().Strs("roles", roles).Msg("roles seeded")
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&extra, "role", []string{"admin"}, "additional role names to seed")
	return cmd
}
