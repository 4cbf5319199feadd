package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/indatwa/events-api/internal/auth"
	"github.com/indatwa/events-api/internal/config"
	"github.com/indatwa/events-api/internal/models"
)

var seedUsers []string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create initial dashboard accounts",
	Long: `Hash and insert dashboard accounts. Existing usernames are left untouched.

Each --user takes name:password[:role]; role defaults to admin. When a role is
given, everything between the first and last colon is the password.`,
	Example: `  events-api seed --user root:change-me:superadmin --user frontdesk:s3cret:staff`,
	RunE:    runSeed,
}

func init() {
	seedCmd.Flags().StringArrayVar(&seedUsers, "user", nil, "account to create as name:password[:role] (repeatable)")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if len(seedUsers) == 0 {
		return errors.New("at least one --user is required")
	}

	accounts := make([]seedAccount, 0, len(seedUsers))
	for _, raw := range seedUsers {
		account, err := parseSeedUser(raw)
		if err != nil {
			return err
		}
		accounts = append(accounts, account)
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("seeding needs STORAGE_DRIVER=%s", config.DriverPostgres)
	}

	ctx := cmd.Context()
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	hasher, err := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("init password hasher: %w", err)
	}

	for _, account := range accounts {
		hash, err := hasher.Hash(account.Password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", account.Username, err)
		}
		created, err := store.SeedUser(ctx, models.User{
			Username:     account.Username,
			Role:         account.Role,
			PasswordHash: hash,
		})
		if err != nil {
			return fmt.Errorf("seed %s: %w", account.Username, err)
		}

		status := "exists"
		if created {
			status = "created"
		}
		logger.Info().Str("username", account.Username).Str("role", account.Role).Msg("seed user " + status)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", account.Username, account.Role, status)
	}
	return nil
}

type seedAccount struct {
	Username string
	Password string
	Role     string
}

func parseSeedUser(raw string) (seedAccount, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 {
		return seedAccount{}, fmt.Errorf("invalid --user %q: want name:password[:role]", raw)
	}

	account := seedAccount{
		Username: strings.TrimSpace(parts[0]),
		Role:     models.RoleAdmin,
	}
	if len(parts) == 2 {
		account.Password = parts[1]
	} else {
		account.Password = strings.Join(parts[1:len(parts)-1], ":")
		account.Role = strings.TrimSpace(parts[len(parts)-1])
	}

	switch {
	case account.Username == "":
		return seedAccount{}, fmt.Errorf("invalid --user %q: empty username", raw)
	case account.Password == "":
		return seedAccount{}, fmt.Errorf("invalid --user %q: empty password", raw)
	case account.Role == "":
		return seedAccount{}, fmt.Errorf("invalid --user %q: empty role", raw)
	case len(account.Username) > 50 || len(account.Role) > 50:
		return seedAccount{}, fmt.Errorf("invalid --user %q: username and role are limited to 50 characters", raw)
	case len(account.Password) > 72:
		return seedAccount{}, fmt.Errorf("invalid --user %q: password is limited to 72 bytes", raw)
	}
	return account, nil
}
