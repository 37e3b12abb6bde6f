// Package main provides the HTTP API server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EPFL-Life/life-sub001/internal/api"
	"github.com/EPFL-Life/life-sub001/internal/auth"
	"github.com/EPFL-Life/life-sub001/internal/bootstrap"
	"github.com/EPFL-Life/life-sub001/internal/config"
	"github.com/EPFL-Life/life-sub001/internal/geocode"
	"github.com/EPFL-Life/life-sub001/internal/logger"
	"github.com/EPFL-Life/life-sub001/internal/service"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	limiterIdleTTL    = 10 * time.Minute
	exitCode          = 1
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(exitCode)
	}

	slog.SetDefault(logger.Setup(cfg.LogLevel, cfg.LogFormat))

	if err := run(cfg); err != nil {
		slog.Error("api server failed", slog.String("error", err.Error()))
		os.Exit(exitCode)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := bootstrap.Repositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepos()

	publisher, closePublisher, err := bootstrap.Publisher(cfg)
	if err != nil {
		return err
	}
	defer closePublisher()

	gin.SetMode(gin.ReleaseMode)

	router, err := api.NewRouter(api.Deps{
		Events:       service.NewEventServiceImpl(repos.Events, repos.Associations, publisher),
		Associations: service.NewAssociationServiceImpl(repos.Associations, repos.Events, publisher),
		Users:        service.NewUserServiceImpl(repos.Users, repos.Associations, repos.Events, repos.Tx, publisher),
		Feed:         service.NewFeedServiceImpl(repos.Users, repos.Associations, repos.Events),
		Verifier:     auth.NewVerifier(cfg.AuthSecret),
		Geocoder:     geocode.NewClient(cfg.GeocoderURL, cfg.GeocoderTimeout),
		Limiter: api.NewRateLimiter(ctx, api.LimiterConfig{
			RPS:     cfg.RateLimitRPS,
			Burst:   cfg.RateLimitBurst,
			IdleTTL: limiterIdleTTL,
		}),
		TrustedProxies: cfg.TrustedProxies,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting API server",
			slog.String("service", "api"),
			slog.String("port", cfg.Port),
			slog.String("backend", cfg.StoreBackend),
		)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutdown signal received, stopping API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
