// Package service orchestrates the task registry with its side effects:
// best-effort replication to the storage collaborator and fan-out of
// updates to real-time subscribers.
package service

import (
	"context"
	"log/slog"

	"github.com/Gohlub/TaskManager-example/internal/domain"
	"github.com/Gohlub/TaskManager-example/internal/registry"
	"github.com/Gohlub/TaskManager-example/internal/storage"
)

// Seed task inserted on startup before any request is served.
const (
	welcomeTaskTitle       = "Welcome Task"
	welcomeTaskDescription = "This is your first task!"
)

// Broadcaster fans a mutated task out to real-time subscribers.
// It never fails visibly: delivery is fire-and-forget.
type Broadcaster interface {
	TaskUpdated(task domain.Task)
}

// PersistenceBridge mirrors mutations to the storage collaborator and pulls
// persisted state back at startup.
type PersistenceBridge interface {
	Store(ctx context.Context, task domain.Task) storage.StoreResult
	LoadPending(ctx context.Context) ([]domain.Task, error)
}

// MutationResult carries a mutated task together with how its replication
// went. Storage.OK maps to the storage_status flag in API responses; the
// local mutation stands either way.
type MutationResult struct {
	Task    domain.Task
	Storage storage.StoreResult
}

// TaskService is the single entry point for task operations. Every mutation
// updates the registry first (so the change is visible to subsequent
// requests immediately), then replicates with a bounded wait, then
// broadcasts to the current subscriber snapshot.
type TaskService struct {
	registry    *registry.Registry
	bridge      PersistenceBridge
	broadcaster Broadcaster
	logger      *slog.Logger
}

// NewTaskService creates a TaskService.
func NewTaskService(
	reg *registry.Registry,
	bridge PersistenceBridge,
	broadcaster Broadcaster,
	logger *slog.Logger,
) *TaskService {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskService")
	}

	return &TaskService{
		registry:    reg,
		bridge:      bridge,
		broadcaster: broadcaster,
		logger:      logger.With(slog.String("component", "task_service")),
	}
}

// Create inserts a new pending task, replicates it, and notifies
// subscribers. A replication failure is folded into the result, never
// returned as the operation's own failure.
func (s *TaskService) Create(
	ctx context.Context,
	title, description string,
	assignedTo *string,
) (MutationResult, error) {
	task, err := s.registry.Create(title, description, assignedTo)
	if err != nil {
		return MutationResult{}, err
	}

	result := s.bridge.Store(ctx, task)
	s.broadcaster.TaskUpdated(task)

	s.logger.Debug("task created",
		slog.String("task_id", task.ID),
		slog.Bool("storage_ok", result.OK))

	return MutationResult{Task: task, Storage: result}, nil
}

// Get returns a single task by ID, or store.ErrTaskNotFound.
func (s *TaskService) Get(id string) (domain.Task, error) {
	return s.registry.Get(id)
}

// All returns every task in a stable order.
func (s *TaskService) All() []domain.Task {
	return s.registry.All()
}

// UpdateStatus overwrites a task's status, replicates the updated task, and
// notifies subscribers. Returns store.ErrTaskNotFound when the ID is absent;
// in that case no side effect fires.
func (s *TaskService) UpdateStatus(
	ctx context.Context,
	id string,
	status domain.TaskStatus,
) (MutationResult, error) {
	task, err := s.registry.UpdateStatus(id, status)
	if err != nil {
		return MutationResult{}, err
	}

	result := s.bridge.Store(ctx, task)
	s.broadcaster.TaskUpdated(task)

	s.logger.Debug("task status updated",
		slog.String("task_id", task.ID),
		slog.String("status", string(status)),
		slog.Bool("storage_ok", result.OK))

	return MutationResult{Task: task, Storage: result}, nil
}

// ByStatus returns the tasks currently holding the given status.
// Served both locally and to remote peers; retry and timeout concerns
// belong to the caller.
func (s *TaskService) ByStatus(status domain.TaskStatus) []domain.Task {
	return s.registry.ByStatus(status)
}

// Statistics returns a point-in-time summary of the registry.
func (s *TaskService) Statistics() registry.Stats {
	return s.registry.Statistics()
}

// Bootstrap runs once before any request is served: it seeds the welcome
// task and pulls previously persisted pending tasks back into the registry.
// A storage failure degrades to a seed-only registry; startup never aborts
// because the collaborator is unavailable.
func (s *TaskService) Bootstrap(ctx context.Context) error {
	seed, err := domain.NewTask(welcomeTaskTitle, welcomeTaskDescription, nil)
	if err != nil {
		return err
	}
	s.registry.Adopt(*seed)

	tasks, err := s.bridge.LoadPending(ctx)
	if err != nil {
		s.logger.Warn("failed to load tasks from storage", slog.Any("error", err))
		return nil
	}

	for _, task := range tasks {
		s.registry.Adopt(task)
	}
	s.logger.Info("loaded tasks from storage", slog.Int("count", len(tasks)))

	return nil
}
