package main

import (
	"github.com/deppfellow/musician-api/internal/config"
	"github.com/deppfellow/musician-api/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "musician",
	Short: "Musician API server",
	Long: `musician serves a small CRUD API over musician documents.

Configuration is read from MUSICIAN_* environment variables (and a .env
file when present). Running without a subcommand starts the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// loadConfig reads and validates the configuration and builds the logger
// every command shares.
func loadConfig() (*config.Config, *logger.LoggerService, zerolog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}

	return cfg, loggerService, logger.NewLoggerWithService(cfg.Observability, loggerService), nil
}
