// Package main provides the change-feed consumer.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/EPFL-Life/life-sub001/internal/changefeed"
	"github.com/EPFL-Life/life-sub001/internal/config"
	"github.com/EPFL-Life/life-sub001/internal/logger"
	"github.com/EPFL-Life/life-sub001/internal/model"
)

const exitCode = 1

func handleChange(_ context.Context, change model.Change) error {
	slog.Info("change received",
		slog.String("collection", string(change.Collection)),
		slog.String("action", string(change.Action)),
		slog.String("id", change.ID),
		slog.Time("at", change.At),
	)

	return nil
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(exitCode)
	}

	slog.SetDefault(logger.Setup(cfg.LogLevel, cfg.LogFormat))

	if cfg.RedisAddr == "" {
		slog.Error("REDIS_ADDR is required for the consumer")
		os.Exit(exitCode)
	}

	redisClient, err := changefeed.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		slog.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(exitCode)
	}
	defer redisClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := changefeed.NewConsumer(redisClient, cfg.ChangeStreamKey, cfg.ConsumerGroup, cfg.ConsumerName)
	consumer.EnsureGroup(ctx)

	slog.Info("starting change consumer",
		slog.String("service", "consumer"),
		slog.String("stream", cfg.ChangeStreamKey),
		slog.String("group", cfg.ConsumerGroup),
		slog.String("consumer", cfg.ConsumerName),
	)

	consumer.Run(ctx, handleChange)
}
