// Command storaged runs the storage collaborator: a small HTTP process
// that persists tasks replicated from the task-manager into PostgreSQL
// and serves them back for recovery after restarts.
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
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	apiMiddleware "github.com/Gohlub/TaskManager-example/internal/api/middleware"
	"github.com/Gohlub/TaskManager-example/internal/api/shared"
	"github.com/Gohlub/TaskManager-example/internal/config"
	"github.com/Gohlub/TaskManager-example/internal/platform/logger"
	"github.com/Gohlub/TaskManager-example/internal/platform/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "storaged failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.Storaged.DatabaseURL == "" {
		return errors.New("storaged.database_url is required (TASKMGR_STORAGED_DATABASE_URL)")
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	log = log.With(slog.String("component", "storaged"))

	db, err := openDatabase(cfg.Storaged.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database migrations applied")

	store := postgres.NewTaskStore(db)
	handler := newStorageHandler(store, log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(apiMiddleware.TraceMiddleware)

	router.Post("/storage/tasks", handler.UpsertTask)
	router.Get("/storage/tasks", handler.ListTasksByStatus)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			shared.RespondWithError(w, r, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error("failed to write health check response", "error", err)
		}
	})

	return serve(cfg.Storaged.Port, router, log)
}

// openDatabase connects to PostgreSQL and verifies connectivity before the
// daemon accepts any traffic.
func openDatabase(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	return goose.Up(db, "migrations")
}

func serve(port int, router http.Handler, log *slog.Logger) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting storage daemon", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("storage daemon failed: %w", err)
	case <-shutdownCh:
		log.Info("shutting down storage daemon...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("storage daemon shutdown failed: %w", err)
	}

	log.Info("storage daemon shutdown completed")
	return nil
}
