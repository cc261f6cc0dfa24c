package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/credentials-core/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/credentials-core/internal/adapters/driven/redis"
	"github.com/custodia-labs/credentials-core/internal/config"
	"github.com/custodia-labs/credentials-core/internal/core/ports/driven"
)

// newLogger builds the process logger: JSON on w at the configured level
func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func stdoutLogger(cfg config.Config) *slog.Logger {
	return newLogger(os.Stdout, cfg)
}

// openStore connects the configured user store backend.
// The returned close function releases the underlying connection.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (driven.UserStore, func() error, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := connectPostgres(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if cfg.AutoMigrate {
			if err := db.Migrate(ctx); err != nil {
				db.Close()
				return nil, nil, err
			}
			logger.Info("database migrations applied")
		}
		logger.Info("connected to PostgreSQL")
		return postgres.NewUserStore(db), db.Close, nil

	case config.BackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Info("connected to Redis")
		return redisadapter.NewUserStore(client), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func connectPostgres(ctx context.Context, cfg config.Config) (*postgres.DB, error) {
	dbCfg := postgres.DefaultConfig(cfg.DatabaseURL)
	dbCfg.MaxOpenConns = cfg.DBMaxOpenConns
	dbCfg.MaxIdleConns = cfg.DBMaxIdleConns
	dbCfg.ConnMaxLifetime = cfg.DBConnMaxLifetime
	dbCfg.ConnMaxIdleTime = cfg.DBConnMaxIdleTime

	return postgres.Connect(ctx, dbCfg)
}
