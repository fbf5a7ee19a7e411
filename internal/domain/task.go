package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskTitleEmpty is returned when a task's title is empty.
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")

	// ErrInvalidTaskStatus is returned when a status value is not one of the
	// known TaskStatus constants.
	ErrInvalidTaskStatus = errors.New("invalid task status")
)

// TaskStatus represents the lifecycle state of a task.
//
// There is no enforced transition graph: any status may overwrite any other,
// including no-op transitions. Callers that need stricter semantics must
// layer them on top.
type TaskStatus string

// Known task statuses.
const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusCancelled  TaskStatus = "Cancelled"
)

// ParseTaskStatus converts a raw string into a TaskStatus.
// Returns ErrInvalidTaskStatus for unknown values.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return TaskStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTaskStatus, s)
	}
}

// IsValid reports whether the status is one of the known constants.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// Task represents a single tracked unit of work.
// Tasks are created in Pending status and are never deleted; only their
// status changes after creation.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   int64      `json:"created_at"`
	AssignedTo  *string    `json:"assigned_to"`
}

// NewTask creates a new Task with the given title, description, and optional
// assignee. It generates a new UUID for the task ID, sets the status to
// Pending, and stamps the current time in seconds since the epoch.
// Returns an error if validation fails.
func NewTask(title, description string, assignedTo *string) (*Task, error) {
	task := &Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Status:      TaskStatusPending,
		CreatedAt:   time.Now().UTC().Unix(),
		AssignedTo:  assignedTo,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == "" {
		return ErrTaskIDEmpty
	}

	if t.Title == "" {
		return ErrTaskTitleEmpty
	}

	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTaskStatus, string(t.Status))
	}

	return nil
}
