package store

import (
	"context"

	"github.com/Gohlub/TaskManager-example/internal/domain"
)

// TaskStore defines the interface for durable task persistence.
// It is implemented by the Postgres store used by the storage daemon;
// the task-manager process only ever reaches it over the wire through
// the persistence bridge.
type TaskStore interface {
	// UpsertTask saves a task, overwriting any existing row with the same ID.
	// Replication is last-writer-wins: the registry is the source of truth
	// for the current session, so the store never rejects an overwrite.
	UpsertTask(ctx context.Context, task domain.Task) error

	// TasksByStatus retrieves every stored task with the given status,
	// ordered by creation time.
	TasksByStatus(ctx context.Context, status domain.TaskStatus) ([]domain.Task, error)
}
