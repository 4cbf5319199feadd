package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/indatwa/events-api/internal/auth"
	"github.com/indatwa/events-api/internal/metrics"
	"github.com/indatwa/events-api/internal/server"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server.

Configuration comes from environment variables (and an optional .env file):
  PORT, STORAGE_DRIVER, DATABASE_URL, DB_AUTO_MIGRATE, DB_MAX_CONNS,
  ALLOWED_ORIGINS, BCRYPT_COST, JWT_SECRET, JWT_ISSUER, JWT_TTL,
  LOGIN_RATE_PER_MINUTE, LOGIN_RATE_BURST, LOG_LEVEL, LOG_FORMAT.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateForServing(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	hasher, err := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("init password hasher: %w", err)
	}
	if hasher.Cost() != cfg.Auth.BcryptCost {
		logger.Warn().
			Int("requested", cfg.Auth.BcryptCost).
			Int("cost", hasher.Cost()).
			Msg("bcrypt cost clamped")
	}

	srv := server.New(cfg, server.Dependencies{
		Store:   store,
		Hasher:  hasher,
		Tokens:  auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTTTL),
		Logger:  logger,
		Metrics: metrics.New(),
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.HTTPAddress()).
			Str("storage", cfg.Database.Driver).
			Strs("origins", cfg.Origins()).
			Msg("events-api listening")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	return nil
}
