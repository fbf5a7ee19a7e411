// Package postgres implements the storage daemon's persistence layer on
// PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gohlub/TaskManager-example/internal/domain"
	"github.com/Gohlub/TaskManager-example/internal/store"
)

// TaskStore implements the store.TaskStore interface using PostgreSQL.
type TaskStore struct {
	db store.DBTX
}

// NewTaskStore creates a new TaskStore.
func NewTaskStore(db store.DBTX) *TaskStore {
	return &TaskStore{db: db}
}

// UpsertTask persists a task, overwriting any existing row with the same ID.
// Replication is last-writer-wins; the task-manager's registry is the source
// of truth for the current session.
func (s *TaskStore) UpsertTask(ctx context.Context, task domain.Task) error {
	query := `
		INSERT INTO tasks (id, title, description, status, created_at, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title,
		    description = EXCLUDED.description,
		    status = EXCLUDED.status,
		    created_at = EXCLUDED.created_at,
		    assigned_to = EXCLUDED.assigned_to
	`

	var assignedTo sql.NullString
	if task.AssignedTo != nil {
		assignedTo = sql.NullString{String: *task.AssignedTo, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		task.CreatedAt,
		assignedTo,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert task: %w", err)
	}

	return nil
}

// TasksByStatus retrieves every stored task with the given status, ordered
// by creation time with the ID as a tiebreaker.
func (s *TaskStore) TasksByStatus(
	ctx context.Context,
	status domain.TaskStatus,
) ([]domain.Task, error) {
	query := `
		SELECT id, title, description, status, created_at, assigned_to
		FROM tasks
		WHERE status = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks by status: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task

	for rows.Next() {
		var task domain.Task
		var rawStatus string
		var assignedTo sql.NullString

		if err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&rawStatus,
			&task.CreatedAt,
			&assignedTo,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}

		task.Status = domain.TaskStatus(rawStatus)
		if assignedTo.Valid {
			task.AssignedTo = &assignedTo.String
		}

		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}
