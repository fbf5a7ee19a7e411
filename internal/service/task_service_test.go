package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gohlub/TaskManager-example/internal/domain"
	"github.com/Gohlub/TaskManager-example/internal/registry"
	"github.com/Gohlub/TaskManager-example/internal/storage"
	"github.com/Gohlub/TaskManager-example/internal/store"
)

// fakeBridge scripts replication outcomes and records what was stored.
type fakeBridge struct {
	storeResult storage.StoreResult
	stored      []domain.Task
	pending     []domain.Task
	loadErr     error
}

func (b *fakeBridge) Store(ctx context.Context, task domain.Task) storage.StoreResult {
	b.stored = append(b.stored, task)
	return b.storeResult
}

func (b *fakeBridge) LoadPending(ctx context.Context) ([]domain.Task, error) {
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	return b.pending, nil
}

// fakeBroadcaster records broadcast tasks.
type fakeBroadcaster struct {
	updates []domain.Task
}

func (f *fakeBroadcaster) TaskUpdated(task domain.Task) {
	f.updates = append(f.updates, task)
}

func newTestService(bridge *fakeBridge) (*TaskService, *registry.Registry, *fakeBroadcaster) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := registry.New(logger)
	broadcaster := &fakeBroadcaster{}
	return NewTaskService(reg, bridge, broadcaster, logger), reg, broadcaster
}

func okBridge() *fakeBridge {
	return &fakeBridge{storeResult: storage.StoreResult{OK: true, Outcome: storage.OutcomeSuccess}}
}

func TestTaskServiceCreate(t *testing.T) {
	t.Run("replicates and broadcasts the new task", func(t *testing.T) {
		bridge := okBridge()
		svc, _, broadcaster := newTestService(bridge)

		result, err := svc.Create(context.Background(), "Write report", "Q3", nil)
		require.NoError(t, err)

		assert.True(t, result.Storage.OK)
		require.Len(t, bridge.stored, 1)
		assert.Equal(t, result.Task.ID, bridge.stored[0].ID)
		require.Len(t, broadcaster.updates, 1)
		assert.Equal(t, result.Task.ID, broadcaster.updates[0].ID)
	})

	t.Run("storage timeout still yields the task with storage_status false", func(t *testing.T) {
		bridge := &fakeBridge{
			storeResult: storage.StoreResult{
				OK:      false,
				Outcome: storage.OutcomeTimeout,
				Message: "storage call failed: context deadline exceeded",
			},
		}
		svc, _, _ := newTestService(bridge)

		result, err := svc.Create(context.Background(), "Write report", "Q3", nil)
		require.NoError(t, err)

		// The local mutation stands: the task is present and readable.
		got, err := svc.Get(result.Task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Write report", got.Title)

		assert.False(t, result.Storage.OK)
		assert.Equal(t, storage.OutcomeTimeout, result.Storage.Outcome)
	})
}

func TestTaskServiceUpdateStatus(t *testing.T) {
	t.Run("replicates and broadcasts the updated task", func(t *testing.T) {
		bridge := okBridge()
		svc, _, broadcaster := newTestService(bridge)

		created, err := svc.Create(context.Background(), "Write report", "", nil)
		require.NoError(t, err)

		result, err := svc.UpdateStatus(context.Background(), created.Task.ID, domain.TaskStatusCompleted)
		require.NoError(t, err)

		assert.Equal(t, domain.TaskStatusCompleted, result.Task.Status)
		require.Len(t, bridge.stored, 2)
		assert.Equal(t, domain.TaskStatusCompleted, bridge.stored[1].Status)
		require.Len(t, broadcaster.updates, 2)
		assert.Equal(t, domain.TaskStatusCompleted, broadcaster.updates[1].Status)
	})

	t.Run("unknown ID fires no side effects", func(t *testing.T) {
		bridge := okBridge()
		svc, _, broadcaster := newTestService(bridge)

		_, err := svc.UpdateStatus(context.Background(), "no-such-id", domain.TaskStatusCompleted)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.Empty(t, bridge.stored)
		assert.Empty(t, broadcaster.updates)
	})
}

func TestTaskServiceBootstrap(t *testing.T) {
	t.Run("seeds the welcome task and adopts persisted tasks", func(t *testing.T) {
		bridge := okBridge()
		bridge.pending = []domain.Task{
			{ID: "restored-1", Title: "Restored", Status: domain.TaskStatusPending, CreatedAt: 1700000000},
		}
		svc, _, _ := newTestService(bridge)

		require.NoError(t, svc.Bootstrap(context.Background()))

		tasks := svc.All()
		require.Len(t, tasks, 2)

		titles := []string{tasks[0].Title, tasks[1].Title}
		assert.Contains(t, titles, "Welcome Task")
		assert.Contains(t, titles, "Restored")

		// Seeding and adoption are replays, not requests.
		assert.Equal(t, uint64(0), svc.Statistics().CreationCount)
	})

	t.Run("storage failure degrades to a seed-only registry", func(t *testing.T) {
		bridge := okBridge()
		bridge.loadErr = errors.New("storage service is offline")
		svc, _, _ := newTestService(bridge)

		require.NoError(t, svc.Bootstrap(context.Background()))

		tasks := svc.All()
		require.Len(t, tasks, 1)
		assert.Equal(t, "Welcome Task", tasks[0].Title)
		assert.Equal(t, domain.TaskStatusPending, tasks[0].Status)
	})
}

// Mirrors the end-to-end scenario: one seed task plus task "A".
func TestTaskServiceScenario(t *testing.T) {
	bridge := okBridge()
	svc, _, _ := newTestService(bridge)
	bridge.loadErr = errors.New("offline")
	require.NoError(t, svc.Bootstrap(context.Background()))

	created, err := svc.Create(context.Background(), "A", "", nil)
	require.NoError(t, err)

	assert.Len(t, svc.All(), 2, "seed task + A")

	_, err = svc.UpdateStatus(context.Background(), created.Task.ID, domain.TaskStatusCompleted)
	require.NoError(t, err)

	stats := svc.Statistics()
	assert.Equal(t, uint64(1), stats.CompletedTasks)
	assert.Equal(t, uint64(1), stats.PendingTasks, "seed task is still pending")
	assert.Equal(t, uint64(2), stats.TotalTasks)
	assert.Equal(t, uint64(1), stats.CreationCount)
}
