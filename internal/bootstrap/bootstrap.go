// Package bootstrap wires the configured backends shared by the binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EPFL-Life/life-sub001/internal/changefeed"
	"github.com/EPFL-Life/life-sub001/internal/config"
	"github.com/EPFL-Life/life-sub001/internal/repository"
)

// Repositories opens the store selected by cfg.StoreBackend. The returned func releases it.
func Repositories(ctx context.Context, cfg *config.Config) (*repository.Set, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendFirestore:
		client, err := repository.NewFirestoreClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
		if err != nil {
			return nil, nil, err
		}

		closeFn := func() {
			if err := client.Close(); err != nil {
				slog.Warn("failed to close firestore client", slog.String("error", err.Error()))
			}
		}

		return repository.NewFirestoreSet(client).Instrumented(), closeFn, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := repository.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}

		return repository.NewPostgresSet(pool).Instrumented(), pool.Close, nil

	default:
		return repository.NewLocalSet().Instrumented(), func() {}, nil
	}
}

// Publisher returns the change-feed publisher, or a no-op one when Redis is not configured.
func Publisher(cfg *config.Config) (changefeed.Publisher, func(), error) {
	if cfg.RedisAddr == "" {
		slog.Info("REDIS_ADDR not set, change feed disabled")
		return changefeed.NopPublisher{}, func() {}, nil
	}

	client, err := changefeed.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		return nil, nil, err
	}

	return changefeed.NewRedisPublisher(client, cfg.ChangeStreamKey), client.Close, nil
}
