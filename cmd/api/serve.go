// ABOUTME: serve command wires stores, the Matomo client and handlers into the HTTP server
// ABOUTME: Shuts down gracefully on SIGINT or SIGTERM

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"mai-analytics-api/api"
	"mai-analytics-api/api/handlers"
	"mai-analytics-api/api/middleware"
	"mai-analytics-api/core/interfaces"
	"mai-analytics-api/core/tagging"
	"mai-analytics-api/core/views"
	stdhttp "mai-analytics-api/infrastructure/http/standard"
	"mai-analytics-api/infrastructure/logger/logrus"
	"mai-analytics-api/infrastructure/matomo"
	"mai-analytics-api/infrastructure/metrics"
	"mai-analytics-api/infrastructure/nonce"
	"mai-analytics-api/infrastructure/store/cached"
	"mai-analytics-api/infrastructure/store/memory"
	"mai-analytics-api/infrastructure/store/redis"
	"mai-analytics-api/infrastructure/store/sqlite"
	"mai-analytics-api/pkg/config"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// ServeCmd starts the HTTP server
type ServeCmd struct {
	Port string `short:"p" help:"Listen port, overrides PORT"`
}

// Run loads configuration and serves until interrupted
func (s *ServeCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config, cli.EnvFile...)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if s.Port != "" {
		cfg.Server.Port = s.Port
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logrus.New(logOptions(cfg))
	defer logger.Close()

	logger.Info("Starting Mai Analytics API", map[string]interface{}{
		"port":           cfg.Server.Port,
		"store":          cfg.Store.Type,
		"tracking":       cfg.Analytics.Enabled,
		"views_interval": cfg.Analytics.ViewsInterval,
	})

	handler, cleanup, err := buildApp(cfg, logger, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(2*cfg.HTTP.TimeoutSeconds+15) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{"address": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{"error": err.Error()})
		return err
	}

	logger.Info("Server stopped", nil)
	return nil
}

func logOptions(cfg *config.Config) logrus.Options {
	level := cfg.Log.Level
	if cfg.Analytics.Debug {
		level = "debug"
	}
	return logrus.Options{
		Level:      level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}
}

// buildApp assembles the router. The returned cleanup closes the store.
func buildApp(cfg *config.Config, logger interfaces.Logger, reg *prometheus.Registry) (http.Handler, func(), error) {
	store, closer := openStore(cfg.Store, logger)
	cleanup := func() {
		if closer != nil {
			closer.Close()
		}
	}

	var recorder interfaces.Recorder = metrics.NoopRecorder{}
	if cfg.Server.Metrics {
		recorder = metrics.NewPrometheusRecorder(reg)
	}

	httpClient := stdhttp.NewClient(
		time.Duration(cfg.HTTP.TimeoutSeconds)*time.Second,
		stdhttp.WithRetries(cfg.HTTP.Retries),
		stdhttp.WithTransport(&middleware.LoggingRoundTripper{Transport: http.DefaultTransport, Logger: logger}),
	)

	analytics := cfg.Analytics.Core()
	matomoClient := matomo.NewClient(httpClient, logger, analytics.URL, analytics.SiteID, analytics.Token)

	nonces, err := nonce.NewManager(nonceSecret(cfg.Nonce.Secret), time.Duration(cfg.Nonce.LifetimeHours)*time.Hour)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("nonce manager: %w", err)
	}

	deps := interfaces.Dependencies{
		Store:    store,
		Logger:   logger,
		Recorder: recorder,
	}
	viewsService := views.NewService(analytics, deps, matomoClient, nonces,
		views.WithAjaxURL(handlers.AjaxPath),
		views.WithMaxAge(time.Duration(cfg.Nonce.LifetimeHours)*time.Hour))

	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{Logger: logger})

	// Only the refresh call reaches the analytics server, so only it is rate limited.
	refreshRoutes := chi.Router(router)
	if cfg.Server.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)
		refreshRoutes = router.With(middleware.RateLimitMiddleware(limiter))
	}
	handlers.NewRefreshHandler(viewsService, logger).RegisterRoutes(refreshRoutes)

	handlers.NewTagHandler(tagging.NewTagger(logger), recorder).RegisterRoutes(humaAPI)
	handlers.NewTrackingHandler(analytics, logger, viewsService).RegisterRoutes(humaAPI)
	handlers.NewViewsHandler(viewsService).RegisterRoutes(humaAPI)

	if cfg.Server.Metrics {
		router.Handle("/metrics", metrics.HTTPHandler(reg))
	}

	return router, cleanup, nil
}

// openStore opens the configured metric store. A failing redis or sqlite
// store falls back to memory so tracking keeps working without view counts
// surviving restarts.
func openStore(cfg config.StoreConfig, logger interfaces.Logger) (interfaces.MetricStore, io.Closer) {
	var (
		store  interfaces.MetricStore
		closer io.Closer
	)

	switch cfg.Type {
	case config.StoreRedis:
		redisStore, err := redis.NewStore(cfg.Redis)
		if err != nil {
			logger.Error("Failed to connect to Redis, falling back to memory", map[string]interface{}{
				"address": cfg.Redis.Address,
				"error":   err.Error(),
			})
			return memory.NewStore(), nil
		}
		logger.Info("Using Redis metric store", map[string]interface{}{"address": cfg.Redis.Address})
		store, closer = redisStore, redisStore

	case config.StoreSQLite:
		sqliteStore, err := sqlite.NewStore(cfg.SQLite.Path, logger)
		if err != nil {
			logger.Error("Failed to open SQLite, falling back to memory", map[string]interface{}{
				"path":  cfg.SQLite.Path,
				"error": err.Error(),
			})
			return memory.NewStore(), nil
		}
		stats, err := sqliteStore.Stats(context.Background())
		if err == nil {
			logger.Info("Using SQLite metric store", stats)
		}
		store, closer = sqliteStore, sqliteStore

	default:
		logger.Info("Using memory metric store", nil)
		return memory.NewStore(), nil
	}

	if cfg.CacheTTL > 0 {
		store = cached.NewStore(store, time.Duration(cfg.CacheTTL)*time.Second)
	}
	return store, closer
}

// nonceSecret returns the configured secret, or a random one valid for the
// life of the process.
func nonceSecret(configured string) []byte {
	if configured != "" {
		return []byte(configured)
	}
	a, b := uuid.New(), uuid.New()
	return append(a[:], b[:]...)
}
