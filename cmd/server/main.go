// Command server runs the task-manager process: the HTTP API, the
// real-time WebSocket channel, and the inter-process RPC surface, backed
// by the in-memory registry and the persistence bridge.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Gohlub/TaskManager-example/internal/config"
	"github.com/Gohlub/TaskManager-example/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"storage_url", cfg.Storage.URL)

	app := newApplication(cfg, log)

	// Startup hook: runs once before any request is served.
	if err := app.bootstrap(context.Background()); err != nil {
		return fmt.Errorf("failed to bootstrap application: %w", err)
	}

	return app.startHTTPServer(context.Background(), app.setupRouter())
}
