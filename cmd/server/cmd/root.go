package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/indatwa/events-api/internal/config"
	"github.com/indatwa/events-api/internal/storage"
	"github.com/indatwa/events-api/internal/storage/memory"
	"github.com/indatwa/events-api/internal/storage/postgres"
)

var (
	logLevel  string
	logFormat string

	rootCmd = &cobra.Command{
		Use:   "events-api",
		Short: "Bookings and staff accounts backend",
		Long: `events-api serves the booking intake form and the admin dashboard:
login, booking management and staff user management over a JSON HTTP API.`,
		SilenceUsage: true,
		// serve is the default when no subcommand is given
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute runs the root command. Called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error) (default: LOG_LEVEL or info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console) (default: LOG_FORMAT or json)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and applies the global log flags.
func loadConfig() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	return cfg, config.NewLogger(cfg.Logging), nil
}

// openStore builds the configured storage backend.
func openStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (storage.Store, error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn().Msg("using in-memory storage; data is lost on exit")
		return memory.New(), nil
	}

	store, err := postgres.NewStore(ctx, cfg.Database.URL, postgres.Options{
		MaxConns:    cfg.Database.MaxConns,
		AutoMigrate: cfg.Database.AutoMigrate,
	})
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	logger.Info().Bool("auto_migrate", cfg.Database.AutoMigrate).Msg("connected to PostgreSQL")
	return store, nil
}
