package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	v1 "github.com/vmunix/arrsync/internal/api/v1"
	"github.com/vmunix/arrsync/internal/config"
	"github.com/vmunix/arrsync/internal/events"
	"github.com/vmunix/arrsync/internal/handlers"
	"github.com/vmunix/arrsync/internal/jobs"
	"github.com/vmunix/arrsync/internal/library"
	"github.com/vmunix/arrsync/internal/migrations"
	"github.com/vmunix/arrsync/internal/server"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wrote { // Only capture first WriteHeader call
		r.status = code
		r.wrote = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		level := slog.LevelInfo
		if r.URL.Path == "/metrics" {
			level = slog.LevelDebug
		}
		log.Log(r.Context(), level, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func openDB(path string) (*sql.DB, error) {
	// Ensure database directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func runServer(configPath string) error {
	if configPath == "" {
		found, err := config.Discover()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		configPath = found
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	db, err := openDB(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	// === Stores and event bus ===
	store := library.NewStore(db)
	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, logger.With("component", "bus"))
	defer func() { _ = bus.Close() }()

	// === Sync jobs ===
	app, err := buildApp(cfg, db, store, bus, logger)
	if err != nil {
		return err
	}

	scheduler := jobs.New(logger.With("component", "jobs"))
	if err := app.register(scheduler, cfg); err != nil {
		return err
	}
	app.restoreLastRuns(eventLog, logger)

	// === HTTP Setup ===
	mux := http.NewServeMux()

	apiV1, err := v1.NewWithDeps(v1.ServerDeps{
		Titles:   store,
		Jobs:     scheduler,
		EventLog: eventLog,
		Services: app.serviceChecks(db),
		Features: app.features,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	apiV1.RegisterRoutes(mux)

	// === Background components ===
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := server.NewRunner(scheduler, app.maintenanceTasks(eventLog), logger.With("component", "runner"))
	runner.AddHandlers(handlers.NewActivityHandler(bus, logger.With("component", "activity")))

	runnerDone := make(chan struct{})
	go func() {
		defer close(runnerDone)
		if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("runner error", "error", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"addr", addr,
		"config", configPath,
		"database", cfg.Database.Path,
		"plex", cfg.Plex.Configured(),
		"jellyfin", cfg.Jellyfin.Configured(),
		"sonarr", len(cfg.Sonarr),
		"radarr", len(cfg.Radarr),
		"uhd_movies", app.features.UHDMovies,
		"uhd_series", app.features.UHDSeries,
		"log_level", cfg.Server.LogLevel,
	)

	// === HTTP Server ===
	srv := &http.Server{
		Addr:              addr,
		Handler:           logRequests(mux, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Wait for interrupt signal or listener failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-serveErr:
		cancel()
		<-runnerDone
		return fmt.Errorf("listen: %w", err)
	}

	// Cancel background jobs; running scans stop at their next check
	cancel()

	// Graceful HTTP shutdown with 30s timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	select {
	case <-runnerDone:
	case <-shutdownCtx.Done():
		logger.Warn("background components did not stop in time")
	}

	logger.Info("server stopped")
	return nil
}
