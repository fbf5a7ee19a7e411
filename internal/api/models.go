package api

import "github.com/Gohlub/TaskManager-example/internal/domain"

// NewTaskRequest is the payload for creating a task.
type NewTaskRequest struct {
	Title       string  `json:"title"       validate:"required"`
	Description string  `json:"description"`
	AssignedTo  *string `json:"assigned_to"`
}

// UpdateTaskStatusRequest is the payload for overwriting a task's status.
// The status value is parsed against the known set; no transition graph is
// enforced beyond that.
type UpdateTaskStatusRequest struct {
	NewStatus string `json:"new_status" validate:"required"`
}

// TaskResponse is the uniform envelope for single-task operations.
// StorageStatus reports whether the mutation was replicated to the storage
// collaborator; a false value never means the local mutation failed.
type TaskResponse struct {
	Success       bool         `json:"success"`
	Task          *domain.Task `json:"task"`
	StorageStatus bool         `json:"storage_status"`
	Message       string       `json:"message"`
}
