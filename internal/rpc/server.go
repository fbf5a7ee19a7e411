// Package rpc exposes the inter-process operations (get_statistics and
// get_tasks_by_status) over HTTP JSON, and provides the thin typed client
// peers use to call them. The client layer is mechanical glue over the wire
// contract; all logic lives in the service.
package rpc

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Gohlub/TaskManager-example/internal/api/shared"
	"github.com/Gohlub/TaskManager-example/internal/domain"
	"github.com/Gohlub/TaskManager-example/internal/service"
)

// Handler serves the inter-process operations. They are reachable both from
// within the host and from remote peers; neither bumps the request counter.
type Handler struct {
	tasks  *service.TaskService
	logger *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(tasks *service.TaskService, logger *slog.Logger) *Handler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for rpc Handler")
	}

	return &Handler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "rpc_handler")),
	}
}

// Register mounts the RPC routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/statistics", h.GetStatistics)
	r.Get("/tasks", h.GetTasksByStatus)
}

// GetStatistics handles GET /rpc/statistics requests.
func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.tasks.Statistics())
}

// GetTasksByStatus handles GET /rpc/tasks?status=S requests.
// The filter itself never retries or times out; any such policy belongs to
// the calling peer.
func (h *Handler) GetTasksByStatus(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "status query parameter is required")
		return
	}

	status, err := domain.ParseTaskStatus(raw)
	if err != nil {
		h.logger.Warn("invalid status in rpc call", slog.String("status", raw))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task status")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, h.tasks.ByStatus(status))
}
