package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Gohlub/TaskManager-example/internal/domain"
)

// DefaultTimeout bounds each call to the storage collaborator when the
// configuration does not say otherwise.
const DefaultTimeout = 5 * time.Second

// Bridge mirrors task mutations to the storage collaborator with a bounded
// wait. Failures are captured and reported to the caller, never propagated
// as the mutation's own failure. No retries: retry policy, if desired, is a
// caller concern layered on top.
type Bridge struct {
	client  Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewBridge creates a Bridge that bounds every collaborator call by timeout.
func NewBridge(client Client, timeout time.Duration, logger *slog.Logger) *Bridge {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for Bridge")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Bridge{
		client:  client,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "persistence_bridge")),
	}
}

// Store replicates a task to the collaborator. The local mutation has
// already happened and is never rolled back; any non-success outcome simply
// surfaces as storage_status=false in the caller's response.
func (b *Bridge) Store(ctx context.Context, task domain.Task) StoreResult {
	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	outcome, err := b.client.AddTask(callCtx, task)
	if outcome == OutcomeSuccess {
		return StoreResult{OK: true, Outcome: OutcomeSuccess}
	}

	b.logger.Warn("failed to replicate task to storage",
		slog.String("task_id", task.ID),
		slog.String("outcome", outcome.String()),
		slog.Any("error", err))

	message := outcome.String()
	if err != nil {
		message = err.Error()
	}

	return StoreResult{OK: false, Outcome: outcome, Message: message}
}

// LoadPending pulls previously persisted pending tasks back from the
// collaborator. It is invoked once at startup; on failure the registry
// starts with only its seed task, so the error is reported, not fatal.
func (b *Bridge) LoadPending(ctx context.Context) ([]domain.Task, error) {
	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	tasks, outcome, err := b.client.TasksByStatus(callCtx, domain.TaskStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending tasks (%s): %w", outcome, err)
	}

	return tasks, nil
}
