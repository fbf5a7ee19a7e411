package main

import (
	"log/slog"
	"net/http"

	"github.com/Gohlub/TaskManager-example/internal/api/shared"
	"github.com/Gohlub/TaskManager-example/internal/domain"
	"github.com/Gohlub/TaskManager-example/internal/store"
)

// upsertResponse acknowledges a replicated task.
type upsertResponse struct {
	Success bool `json:"success"`
}

// storageHandler serves the replication endpoints the task-manager's
// persistence bridge talks to.
type storageHandler struct {
	store  store.TaskStore
	logger *slog.Logger
}

func newStorageHandler(taskStore store.TaskStore, logger *slog.Logger) *storageHandler {
	// ALLOW-PANIC: Constructor enforcing required dependency
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &storageHandler{
		store:  taskStore,
		logger: logger.With(slog.String("handler", "storage")),
	}
}

// UpsertTask handles POST /storage/tasks. The body is a full task snapshot;
// an existing row with the same ID is overwritten.
func (h *storageHandler) UpsertTask(w http.ResponseWriter, r *http.Request) {
	var task domain.Task
	if err := shared.DecodeJSON(r, &task); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := task.Validate(); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid task", err)
		return
	}

	if err := h.store.UpsertTask(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to store task", err)
		return
	}

	h.logger.Debug("task stored", "task_id", task.ID, "status", task.Status)
	shared.RespondWithJSON(w, r, http.StatusOK, upsertResponse{Success: true})
}

// ListTasksByStatus handles GET /storage/tasks?status=<status>.
func (h *storageHandler) ListTasksByStatus(w http.ResponseWriter, r *http.Request) {
	rawStatus := r.URL.Query().Get("status")
	if rawStatus == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing status parameter")
		return
	}

	status, err := domain.ParseTaskStatus(rawStatus)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown task status")
		return
	}

	tasks, err := h.store.TasksByStatus(r.Context(), status)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to list tasks", err)
		return
	}

	if tasks == nil {
		tasks = []domain.Task{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}
