// Package registry owns the authoritative in-memory collection of tasks
// and the process counters. Every mutation runs under a single mutex so
// no two operations interleave their read-modify-write on the map.
package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/Gohlub/TaskManager-example/internal/domain"
	"github.com/Gohlub/TaskManager-example/internal/store"
)

// Stats is a point-in-time summary of the registry, computed by scanning
// the full collection at call time. Registries are expected to stay small;
// a large deployment would need incremental per-status counters instead.
type Stats struct {
	TotalTasks     uint64 `json:"total_tasks"`
	PendingTasks   uint64 `json:"pending_tasks"`
	CompletedTasks uint64 `json:"completed_tasks"`
	CreationCount  uint64 `json:"creation_count"`
	RequestCount   uint64 `json:"request_count"`
}

// Registry is the single owner of task state for the process.
// Counters never decrease; tasks are never deleted.
type Registry struct {
	mu            sync.Mutex
	tasks         map[string]domain.Task
	creationCount uint64
	requestCount  uint64
	logger        *slog.Logger
}

// New creates an empty Registry.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for Registry")
	}

	return &Registry{
		tasks:  make(map[string]domain.Task),
		logger: logger.With(slog.String("component", "task_registry")),
	}
}

// Create builds a new task with a fresh UUID and Pending status, inserts it
// into the registry, and bumps the creation and request counters.
// A detected ID collision is a logic error: Create fails fast instead of
// silently overwriting the existing task.
func (r *Registry) Create(title, description string, assignedTo *string) (domain.Task, error) {
	task, err := domain.NewTask(title, description, assignedTo)
	if err != nil {
		return domain.Task{}, fmt.Errorf("failed to build task: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.requestCount++

	if _, exists := r.tasks[task.ID]; exists {
		r.logger.Error("task ID collision detected", slog.String("task_id", task.ID))
		return domain.Task{}, fmt.Errorf("%w: task ID %q", store.ErrDuplicate, task.ID)
	}

	r.tasks[task.ID] = *task
	r.creationCount++

	return *task, nil
}

// All returns every task in the registry and bumps the request counter.
// The order is stable within a snapshot: creation time ascending, with the
// ID as a tiebreaker for deterministic listings.
func (r *Registry) All() []domain.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requestCount++
	return r.snapshot()
}

// Get returns the task with the given ID. The request counter is bumped
// regardless of the outcome. Returns store.ErrTaskNotFound when the ID is
// absent; a placeholder task is never constructed.
func (r *Registry) Get(id string) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requestCount++

	task, ok := r.tasks[id]
	if !ok {
		return domain.Task{}, store.ErrTaskNotFound
	}
	return task, nil
}

// UpdateStatus overwrites the status of an existing task in place and returns
// the updated task. No transition is rejected: any status may follow any
// other, including a no-op. The request counter is bumped regardless of the
// outcome; when the ID is absent, nothing else is mutated and
// store.ErrTaskNotFound is returned.
func (r *Registry) UpdateStatus(id string, status domain.TaskStatus) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requestCount++

	task, ok := r.tasks[id]
	if !ok {
		return domain.Task{}, store.ErrTaskNotFound
	}

	task.Status = status
	r.tasks[id] = task

	return task, nil
}

// ByStatus returns every task with the given status. This is a pure filter
// over the current snapshot: it has no side effects on the counters, and it
// is served both locally and to remote peers.
func (r *Registry) ByStatus(status domain.TaskStatus) []domain.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := make([]domain.Task, 0)
	for _, task := range r.tasks {
		if task.Status == status {
			tasks = append(tasks, task)
		}
	}

	sortTasks(tasks)
	return tasks
}

// Statistics computes a summary by scanning the full collection.
// It does not bump the request counter.
func (r *Registry) Statistics() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := Stats{
		TotalTasks:    uint64(len(r.tasks)),
		CreationCount: r.creationCount,
		RequestCount:  r.requestCount,
	}

	for _, task := range r.tasks {
		switch task.Status {
		case domain.TaskStatusPending:
			stats.PendingTasks++
		case domain.TaskStatusCompleted:
			stats.CompletedTasks++
		}
	}

	return stats
}

// Adopt inserts a task restored from the storage collaborator, overwriting
// any existing task with the same ID. Adoption bumps neither counter: it is
// a replay of previously persisted state, not a new request.
func (r *Registry) Adopt(task domain.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[task.ID] = task
}

// snapshot copies the current tasks into a sorted slice.
// Callers must hold r.mu.
func (r *Registry) snapshot() []domain.Task {
	tasks := make([]domain.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		tasks = append(tasks, task)
	}

	sortTasks(tasks)
	return tasks
}

func sortTasks(tasks []domain.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt != tasks[j].CreatedAt {
			return tasks[i].CreatedAt < tasks[j].CreatedAt
		}
		return tasks[i].ID < tasks[j].ID
	})
}
