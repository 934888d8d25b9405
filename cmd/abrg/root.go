package main

import (
	"fmt"

	"abr-geocoder/internal/config"
	"abr-geocoder/internal/logger"

	"github.com/spf13/cobra"
)

var (
	configDir string
	dbDriver  string
	dbSource  string
	verbose   bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:          "abrg",
	Short:        "Geocode Japanese addresses against the Address Base Registry",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if cmd.Flags().Changed("db-driver") {
			cfg.DBDriver = dbDriver
		}
		if cmd.Flags().Changed("db-source") {
			cfg.DBSource = dbSource
		}
		if verbose {
			cfg.LogLevel = "debug"
		}
		logger.Setup(cfg.LogLevel, "console")
		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "configs", "Directory holding app.env")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "Data store driver: pgx, postgres or sqlite")
	rootCmd.PersistentFlags().StringVar(&dbSource, "db-source", "", "Data store connection string or SQLite file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
