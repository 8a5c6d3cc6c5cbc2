// Command posd runs the food-van point-of-sale daemon: catalog, cart,
// sales ledger, stock entry, and the insights adapter behind a REST API.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	app "github.com/foodvanpos/posd/internal/app"
	"github.com/foodvanpos/posd/internal/app/httpapi"
	"github.com/foodvanpos/posd/internal/app/metrics"
	"github.com/foodvanpos/posd/internal/app/services/insights"
	"github.com/foodvanpos/posd/internal/app/storage/postgres"
	"github.com/foodvanpos/posd/internal/app/storage/redisstore"
	"github.com/foodvanpos/posd/internal/config"
	"github.com/foodvanpos/posd/internal/middleware"
	"github.com/foodvanpos/posd/internal/platform/migrations"
	"github.com/foodvanpos/posd/pkg/logger"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "posd: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadFromPath(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Component: "posd",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, db, err := buildStores(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("configure stores: %w", err)
	}
	if db != nil {
		defer db.Close()
	}

	opts := app.Options{PrinterAddr: cfg.Printer.Address}
	if cfg.Insights.APIKey != "" {
		gen, err := insights.NewGeminiClient(nil, cfg.Insights.Endpoint, cfg.Insights.Model, cfg.Insights.APIKey, log)
		if err != nil {
			return fmt.Errorf("configure insights client: %w", err)
		}
		opts.Generator = gen
	} else {
		log.Warn("no insights API key configured; advisor runs in fallback mode")
	}

	application, err := app.New(stores, opts, log)
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}
	if err := application.Start(ctx); err != nil {
		return fmt.Errorf("start application: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := application.Stop(stopCtx); err != nil {
			log.WithError(err).Warn("application stop")
		}
	}()

	handler := buildHandler(application, cfg, log)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// buildStores selects the persistence backends from configuration. Without a
// Redis URL state lives in process memory; a Postgres DSN additionally
// enables the relational sales mirror.
func buildStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (app.Stores, *sql.DB, error) {
	var stores app.Stores

	if cfg.Storage.RedisURL != "" {
		kv, err := redisstore.New(cfg.Storage.RedisURL)
		if err != nil {
			return app.Stores{}, nil, fmt.Errorf("connect redis: %w", err)
		}
		stores.KV = kv
		log.Info("using redis persistence")
	} else {
		log.Warn("no redis URL configured; state will not survive restarts")
	}

	if cfg.Storage.PostgresDSN == "" {
		return stores, nil, nil
	}

	db, err := sql.Open("postgres", cfg.Storage.PostgresDSN)
	if err != nil {
		return app.Stores{}, nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return app.Stores{}, nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := migrations.Apply(ctx, db); err != nil {
		db.Close()
		return app.Stores{}, nil, fmt.Errorf("apply migrations: %w", err)
	}
	stores.Mirror = postgres.New(db)
	log.Info("postgres sales mirror enabled")
	return stores, db, nil
}

func buildHandler(application *app.Application, cfg *config.Config, log *logger.Logger) http.Handler {
	api := httpapi.NewHandler(application)

	var handler http.Handler = api
	handler = middleware.BearerAuth(cfg.Auth.Tokens)(handler)
	if cfg.Server.RateLimitPerSecond > 0 {
		limiter := middleware.NewRateLimiter(cfg.Server.RateLimitPerSecond, cfg.Server.RateLimitBurst, log)
		handler = limiter.Handler(handler)
	}
	handler = metrics.InstrumentHandler(handler)

	root := http.NewServeMux()
	root.Handle("/metrics", metrics.Handler())
	root.Handle("/", handler)
	return root
}
