package main

import (
	"fmt"

	"github.com/deppfellow/musician-api/internal/config"
	"github.com/deppfellow/musician-api/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the PostgreSQL schema migrations",
	Long: `Apply the embedded SQL migrations to the database configured in
MUSICIAN_DATABASE__*. Only meaningful with store.driver=postgres.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, loggerService, log, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	defer loggerService.Shutdown()

	if cfg.Store.Driver != config.DriverPostgres {
		return fmt.Errorf("migrate needs store.driver %q, got %q", config.DriverPostgres, cfg.Store.Driver)
	}

	from, to, err := database.Migrate(cmd.Context(), &log, cfg)
	if err != nil {
		log.Error().Err(err).Int32("from", from).Msg("migration failed")
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d -> %d\n", from, to)
	return nil
}
