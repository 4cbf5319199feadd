package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/indatwa/events-api/internal/config"
	"github.com/indatwa/events-api/internal/storage/postgres"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		databaseURL, err := migrationTarget()
		if err != nil {
			return err
		}
		if err := postgres.MigrateUp(databaseURL); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateSteps < 1 {
			return errors.New("--steps must be at least 1")
		}
		databaseURL, err := migrationTarget()
		if err != nil {
			return err
		}
		if err := postgres.MigrateDown(databaseURL, migrateSteps); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", migrateSteps)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}

func migrationTarget() (string, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return "", err
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return "", fmt.Errorf("migrations need STORAGE_DRIVER=%s", config.DriverPostgres)
	}
	return cfg.Database.URL, nil
}
