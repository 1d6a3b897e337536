package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/platinummonkey/warden/pkg/api"
	"github.com/platinummonkey/warden/pkg/auth"
	"github.com/platinummonkey/warden/pkg/config"
	"github.com/platinummonkey/warden/pkg/directory"
	"github.com/platinummonkey/warden/pkg/directory/memory"
	"github.com/platinummonkey/warden/pkg/directory/postgres"
	"github.com/platinummonkey/warden/pkg/observability"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	store, cleanup, err := newStore(cfg, logger)
	if err != nil {
		logger.WithError(err).Error("failed to initialize storage")
		os.Exit(1)
	}
	defer cleanup()

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(prometheus.NewRegistry())
	}

	svc := directory.NewService(store, metrics)

	if cfg.SeedDemo {
		if err := directory.SeedDemo(context.Background(), svc); err != nil {
			logger.WithError(err).Error("failed to seed demo data")
			os.Exit(1)
		}
		logger.WithField("email", directory.DemoEmail).Info("demo data seeded")
	}

	server := api.NewServer(api.Options{
		Directory:    svc,
		TokenManager: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Logger:       logger,
		RouteGuards:  cfg.RouteGuards,
		Metrics:      metrics,
		CORSOrigins:  cfg.Observability.CORSOrigins,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.WithFields(map[string]interface{}{
			"addr":    httpServer.Addr,
			"storage": cfg.Storage.Type,
		}).Info("warden listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("server failed")
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received, draining connections")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

// newStore builds the configured storage backend and its cleanup hook
func newStore(cfg *config.Config, logger *observability.Logger) (directory.Store, func(), error) {
	switch cfg.Storage.Type {
	case config.StoragePostgres:
		pgCfg := postgres.DefaultConfig(cfg.Storage.PostgresURL)
		pgCfg.MaxConns = cfg.Storage.PostgresMaxConns
		pgCfg.MinConns = cfg.Storage.PostgresMinConns
		pgCfg.Timeout = cfg.Storage.PostgresTimeout

		store, err := postgres.NewStore(pgCfg)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.WithError(err).Warn("failed to close postgres connection")
			}
		}, nil
	default:
		return memory.NewStore(), func() {}, nil
	}
}
