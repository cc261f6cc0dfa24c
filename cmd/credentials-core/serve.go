package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/credentials-core/internal/adapters/driven/auth"
	"github.com/custodia-labs/credentials-core/internal/adapters/driving/http"
	"github.com/custodia-labs/credentials-core/internal/config"
	"github.com/custodia-labs/credentials-core/internal/core/services"
)

// NewServeCmd creates the serve subcommand
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API serving /api/v1/auth/register and /api/v1/auth/login.
Runs pending migrations first when AUTO_MIGRATE is true and the backend is postgres.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := stdoutLogger(cfg)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger.Info("credentials-core starting", "version", version, "backend", cfg.StoreBackend)

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	tokens := auth.NewAdapter(cfg.JWTSecret, cfg.JWTTTL)
	authService := services.NewAuthService(store, tokens, tokens,
		services.WithLogger(logger.With("component", "auth")))

	server := http.NewServer(http.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Version:         version,
		ShutdownTimeout: cfg.ShutdownTimeout,
		AllowedOrigins:  cfg.AllowedOrigins,
	}, authService, store, logger.With("component", "http"))

	return server.Start(ctx)
}
