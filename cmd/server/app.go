package main

import (
	"context"
	"log/slog"

	"github.com/Gohlub/TaskManager-example/internal/config"
	"github.com/Gohlub/TaskManager-example/internal/realtime"
	"github.com/Gohlub/TaskManager-example/internal/registry"
	"github.com/Gohlub/TaskManager-example/internal/service"
	"github.com/Gohlub/TaskManager-example/internal/storage"
)

// application holds the wired dependencies of the task-manager process.
type application struct {
	config      *config.Config
	logger      *slog.Logger
	registry    *registry.Registry
	directory   *realtime.Directory
	hub         *realtime.Hub
	taskService *service.TaskService
}

// newApplication wires the registry, persistence bridge, real-time hub, and
// task service together. The hub and the service reference each other (the
// hub lists tasks for initial syncs, the service broadcasts through the
// hub), so the lister is attached after construction.
func newApplication(cfg *config.Config, logger *slog.Logger) *application {
	reg := registry.New(logger)
	directory := realtime.NewDirectory()
	hub := realtime.NewHub(directory, logger)
	broadcaster := realtime.NewBroadcaster(directory, hub, logger)

	client := storage.NewHTTPClient(cfg.Storage.URL, logger)
	bridge := storage.NewBridge(client, cfg.Storage.Timeout, logger)

	taskService := service.NewTaskService(reg, bridge, broadcaster, logger)
	hub.SetTaskLister(taskService)

	return &application{
		config:      cfg,
		logger:      logger,
		registry:    reg,
		directory:   directory,
		hub:         hub,
		taskService: taskService,
	}
}

// bootstrap seeds the registry and pulls previously persisted tasks from
// the storage collaborator. Storage being down degrades to a seed-only
// registry; it never aborts startup.
func (app *application) bootstrap(ctx context.Context) error {
	return app.taskService.Bootstrap(ctx)
}
