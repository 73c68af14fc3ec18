// @title           orgdesk API
// @version         0.1.0
// @description     Users, the orgs they own, and the clients inside those orgs.
// @basePath        /
// @schemes         http https
// @securityDefinitions.apiKey  Bearer
// @in                          header
// @name                        Authorization
// @description                 "Session token as 'Bearer {token}'. Browsers send the orgdesk_session cookie instead."
//
// Package main is the entry point for the orgdesk server binary.
// It dispatches four subcommands (serve, migrate, seed, version) via a
// switch on os.Args so the binary's full CLI surface is readable in one place.
// serve runs auto-migration on startup when database.auto_migrate is set.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/orgdesk/orgdesk/internal/api"
	"github.com/orgdesk/orgdesk/internal/auth"
	"github.com/orgdesk/orgdesk/internal/config"
	"github.com/orgdesk/orgdesk/internal/db"
	"github.com/orgdesk/orgdesk/internal/safego"
	"github.com/orgdesk/orgdesk/internal/services"
	"github.com/orgdesk/orgdesk/internal/telemetry"

	// Registers the "memory" database driver
	_ "github.com/orgdesk/orgdesk/internal/db/memory"
)

const (
	dbStatsInterval      = 15 * time.Second
	sessionSweepInterval = time.Minute
	shutdownTimeout      = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v\n", err)
	}
}

func run() error {
	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	if command == "version" {
		fmt.Printf("orgdesk v%s\n", api.Version)
		return nil
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	telemetry.SetupLogger(cfg.Logging.Format, cfg.Logging.Level)

	switch command {
	case "serve":
		return serve(cfg)
	case "migrate":
		if len(os.Args) < 3 {
			return fmt.Errorf("usage: %s migrate <up|down>", os.Args[0])
		}
		return runMigrations(cfg, os.Args[2])
	case "seed":
		return runSeed(cfg)
	default:
		return fmt.Errorf("unknown command: %s\nAvailable commands: serve, migrate, seed, version", command)
	}
}

func serve(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Fails outside dev mode when ORGDESK_JWT_SECRET is unset or weak
	if err := auth.ValidateJWTSecret(); err != nil {
		return fmt.Errorf("security configuration error: %w", err)
	}

	backend, err := db.Open(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", cfg.Database.Driver, err)
	}
	defer backend.Close()
	slog.Info("database opened", "driver", cfg.Database.Driver)

	if backend.SQL != nil {
		telemetry.StartDBStatsCollector(ctx, backend.SQL, dbStatsInterval)

		if cfg.Database.AutoMigrate {
			if err := db.RunMigrations(backend.SQL, "up"); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			if version, dirty, err := db.GetMigrationVersion(backend.SQL); err != nil {
				slog.Warn("failed to read migration version", "error", err)
			} else {
				slog.Info("database schema ready", "version", version, "dirty", dirty)
			}
		}
	} else {
		// Nothing survives a restart, so seed the default account every time
		if _, err := services.SeedUser(ctx, backend.Users, cfg.Seed.Username, cfg.Seed.Email, cfg.Seed.Password); err != nil {
			return fmt.Errorf("failed to seed memory store: %w", err)
		}
	}

	sessionStore, closeSessions, err := openSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()
	sessions := auth.NewSessionManager(sessionStore, cfg.Session.TTL)

	var metricsServer *http.Server
	if cfg.Telemetry.Metrics.Enabled {
		metricsServer = startMetricsServer(cfg.Telemetry.Metrics.Port)
	}

	server := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      api.NewRouter(cfg, backend, sessions),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	safego.Go("http-server", func() {
		slog.Info("starting server", "addr", server.Addr, "session_store", cfg.Session.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	})

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if metricsServer != nil {
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// openSessionStore builds the configured session store and returns its
// cleanup function
func openSessionStore(ctx context.Context, cfg *config.Config) (auth.SessionStore, func(), error) {
	switch cfg.Session.Store {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := auth.NewRedisSessionStore(client)
		if err := store.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		slog.Info("redis session store connected", "addr", cfg.Redis.Addr)
		return store, func() { _ = client.Close() }, nil
	default:
		store := auth.NewMemorySessionStore()
		store.StartSweeper(ctx, sessionSweepInterval)
		return store, func() {}, nil
	}
}

// startMetricsServer serves /metrics on its own port so the scrape path is
// not reachable through the public API listener
func startMetricsServer(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	safego.Go("metrics-server", func() {
		slog.Info("starting Prometheus metrics server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server error", "error", err)
		}
	})
	return srv
}

func runMigrations(cfg *config.Config, direction string) error {
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("migrations require the postgres driver (configured: %s)", cfg.Database.Driver)
	}

	database, err := db.Connect(context.Background(), cfg.Database.GetDSN(), cfg.Database.MaxConnections, cfg.Database.MinIdleConnections)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	slog.Info("running migrations", "direction", direction)
	if err := db.RunMigrations(database, direction); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, err := db.GetMigrationVersion(database)
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	slog.Info("migration completed", "version", version, "dirty", dirty)
	return nil
}

// runSeed creates the configured default account if its email is free
func runSeed(cfg *config.Config) error {
	ctx := context.Background()
	backend, err := db.Open(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", cfg.Database.Driver, err)
	}
	defer backend.Close()

	if _, err := services.SeedUser(ctx, backend.Users, cfg.Seed.Username, cfg.Seed.Email, cfg.Seed.Password); err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	return nil
}
