package rpc

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gohlub/TaskManager-example/internal/domain"
	"github.com/Gohlub/TaskManager-example/internal/registry"
	"github.com/Gohlub/TaskManager-example/internal/service"
	"github.com/Gohlub/TaskManager-example/internal/storage"
)

type successBridge struct{}

func (successBridge) Store(ctx context.Context, task domain.Task) storage.StoreResult {
	return storage.StoreResult{OK: true, Outcome: storage.OutcomeSuccess}
}

func (successBridge) LoadPending(ctx context.Context) ([]domain.Task, error) {
	return nil, nil
}

type silentBroadcaster struct{}

func (silentBroadcaster) TaskUpdated(task domain.Task) {}

// newPeer spins up a task-manager RPC surface backed by a real registry and
// returns the typed client pointed at it.
func newPeer(t *testing.T) (*Client, *service.TaskService) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewTaskService(registry.New(logger), successBridge{}, silentBroadcaster{}, logger)
	handler := NewHandler(svc, logger)

	router := chi.NewRouter()
	router.Route("/rpc", handler.Register)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return NewClient(server.URL, 2*time.Second), svc
}

func TestClientGetStatistics(t *testing.T) {
	client, svc := newPeer(t)

	created, err := svc.Create(context.Background(), "A", "", nil)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "B", "", nil)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), created.Task.ID, domain.TaskStatusCompleted)
	require.NoError(t, err)

	stats, err := client.GetStatistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(2), stats.TotalTasks)
	assert.Equal(t, uint64(1), stats.PendingTasks)
	assert.Equal(t, uint64(1), stats.CompletedTasks)
	assert.Equal(t, uint64(2), stats.CreationCount)
}

func TestClientGetTasksByStatus(t *testing.T) {
	client, svc := newPeer(t)

	created, err := svc.Create(context.Background(), "A", "", nil)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "B", "", nil)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), created.Task.ID, domain.TaskStatusCancelled)
	require.NoError(t, err)

	cancelled, err := client.GetTasksByStatus(context.Background(), domain.TaskStatusCancelled)
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, created.Task.ID, cancelled[0].ID)

	pending, err := client.GetTasksByStatus(context.Background(), domain.TaskStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestGetTasksByStatusRejectsBadInput(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewTaskService(registry.New(logger), successBridge{}, silentBroadcaster{}, logger)
	handler := NewHandler(svc, logger)

	router := chi.NewRouter()
	router.Route("/rpc", handler.Register)

	t.Run("missing status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rpc/tasks", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rpc/tasks?status=Archived", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
