package main

import (
	"fmt"

	"github.com/deppfellow/musician-api/internal/config"
	"github.com/deppfellow/musician-api/internal/lib/utils"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long:  `Load and validate the configuration, then print it as JSON with secrets masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		redacted := cfg.Redacted()
		return utils.PrintJSON(cmd.OutOrStdout(), &redacted)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
