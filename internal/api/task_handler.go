// Package api provides HTTP handlers for the API.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Gohlub/TaskManager-example/internal/api/shared"
	"github.com/Gohlub/TaskManager-example/internal/domain"
	"github.com/Gohlub/TaskManager-example/internal/service"
	"github.com/Gohlub/TaskManager-example/internal/store"
)

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	tasks  *service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /api/tasks requests.
// The task is always created locally; a failed replication only flips
// storage_status in the response.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req NewTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("failed to decode create task request", slog.Any("error", err))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		h.logger.Warn("invalid create task request", slog.Any("error", err))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Task title is required")
		return
	}

	result, err := h.tasks.Create(r.Context(), req.Title, req.Description, req.AssignedTo)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Debug("task created via HTTP",
		slog.String("task_id", result.Task.ID),
		slog.Bool("storage_status", result.Storage.OK))

	shared.RespondWithJSON(w, r, http.StatusCreated, TaskResponse{
		Success:       true,
		Task:          &result.Task,
		StorageStatus: result.Storage.OK,
		Message:       "Task created successfully",
	})
}

// ListTasks handles GET /api/tasks requests.
// Returns every task in a stable order.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.tasks.All())
}

// GetTask handles GET /api/tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")
	if taskID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Task ID is required")
		return
	}

	task, err := h.tasks.Get(taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			// A lookup miss is a structured failure response, never an abort.
			shared.RespondWithJSON(w, r, http.StatusNotFound, TaskResponse{
				Success:       false,
				Task:          nil,
				StorageStatus: true,
				Message:       "Task not found",
			})
			return
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskResponse{
		Success:       true,
		Task:          &task,
		StorageStatus: true,
		Message:       "Task found",
	})
}

// UpdateTaskStatus handles PUT /api/tasks/{id}/status requests.
// Any known status may overwrite any other; unknown values are rejected
// before the registry is touched.
func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")
	if taskID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Task ID is required")
		return
	}

	var req UpdateTaskStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("failed to decode status update request", slog.Any("error", err))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "New status is required")
		return
	}

	status, err := domain.ParseTaskStatus(req.NewStatus)
	if err != nil {
		h.logger.Warn("invalid task status value", slog.String("new_status", req.NewStatus))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task status")
		return
	}

	result, err := h.tasks.UpdateStatus(r.Context(), taskID, status)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			shared.RespondWithJSON(w, r, http.StatusNotFound, TaskResponse{
				Success:       false,
				Task:          nil,
				StorageStatus: false,
				Message:       "Task not found",
			})
			return
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Debug("task status updated via HTTP",
		slog.String("task_id", taskID),
		slog.String("status", string(status)),
		slog.Bool("storage_status", result.Storage.OK))

	shared.RespondWithJSON(w, r, http.StatusOK, TaskResponse{
		Success:       true,
		Task:          &result.Task,
		StorageStatus: result.Storage.OK,
		Message:       "Task updated successfully",
	})
}
