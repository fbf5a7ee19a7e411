package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Gohlub/TaskManager-example/internal/api"
	apiMiddleware "github.com/Gohlub/TaskManager-example/internal/api/middleware"
	"github.com/Gohlub/TaskManager-example/internal/rpc"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	rpcHandler := rpc.NewHandler(app.taskService, app.logger)

	// HTTP API
	r.Route("/api", func(r chi.Router) {
		r.Post("/tasks", taskHandler.CreateTask)
		r.Get("/tasks", taskHandler.ListTasks)
		r.Get("/tasks/{id}", taskHandler.GetTask)
		r.Put("/tasks/{id}/status", taskHandler.UpdateTaskStatus)
	})

	// Real-time updates
	r.Get("/ws/tasks", app.hub.HandleConnection)

	// Inter-process operations, reachable from local and remote peers
	r.Route("/rpc", rpcHandler.Register)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
