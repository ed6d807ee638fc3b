// Command clientsvc runs the client registry API and its maintenance tasks.
//
//	@title			Client Registry API
//	@version		1.0
//	@description	Registers clients, provisions their user accounts and announces them to downstream consumers.
//	@BasePath		/
package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/99minutos/client-registry/internal/pkg/config"
	"github.com/99minutos/client-registry/pkg/logger"
)

const serviceName = "client-registry"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:          "clientsvc",
		Short:        "Client registry service",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is fine; real deployments use the environment.
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading configuration")

	root.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd())
	return root
}

// bootstrap loads configuration and initialises the process-wide logger.
func bootstrap() *config.Config {
	cfg := config.Load()
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})
	return cfg
}
