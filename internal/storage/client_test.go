package storage

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gohlub/TaskManager-example/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleTask() domain.Task {
	return domain.Task{
		ID:        "task-1",
		Title:     "Write report",
		Status:    domain.TaskStatusPending,
		CreatedAt: 1700000000,
	}
}

func TestHTTPClientAddTask(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var received domain.Task
		server := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/storage/tasks", r.URL.Path)
				require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"success":true}`))
			}),
		)
		defer server.Close()

		client := NewHTTPClient(server.URL, testLogger())
		outcome, err := client.AddTask(context.Background(), sampleTask())

		require.NoError(t, err)
		assert.Equal(t, OutcomeSuccess, outcome)
		assert.Equal(t, "task-1", received.ID)
	})

	t.Run("deadline exceeded maps to timeout", func(t *testing.T) {
		server := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
			}),
		)
		defer server.Close()

		client := NewHTTPClient(server.URL, testLogger())
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		outcome, err := client.AddTask(ctx, sampleTask())

		assert.Error(t, err)
		assert.Equal(t, OutcomeTimeout, outcome)
	})

	t.Run("unreachable collaborator maps to offline", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // nothing is listening anymore

		client := NewHTTPClient(server.URL, testLogger())
		outcome, err := client.AddTask(context.Background(), sampleTask())

		assert.Error(t, err)
		assert.Equal(t, OutcomeOffline, outcome)
	})

	t.Run("malformed acknowledgement maps to deserialization error", func(t *testing.T) {
		server := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{not json`))
			}),
		)
		defer server.Close()

		client := NewHTTPClient(server.URL, testLogger())
		outcome, err := client.AddTask(context.Background(), sampleTask())

		assert.Error(t, err)
		assert.Equal(t, OutcomeDeserialization, outcome)
	})

	t.Run("non-OK status maps to offline", func(t *testing.T) {
		server := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}),
		)
		defer server.Close()

		client := NewHTTPClient(server.URL, testLogger())
		outcome, err := client.AddTask(context.Background(), sampleTask())

		assert.Error(t, err)
		assert.Equal(t, OutcomeOffline, outcome)
	})
}

func TestHTTPClientTasksByStatus(t *testing.T) {
	t.Run("returns decoded tasks", func(t *testing.T) {
		stored := []domain.Task{sampleTask()}
		server := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/storage/tasks", r.URL.Path)
				require.Equal(t, "Pending", r.URL.Query().Get("status"))
				w.Header().Set("Content-Type", "application/json")
				require.NoError(t, json.NewEncoder(w).Encode(stored))
			}),
		)
		defer server.Close()

		client := NewHTTPClient(server.URL, testLogger())
		tasks, outcome, err := client.TasksByStatus(context.Background(), domain.TaskStatusPending)

		require.NoError(t, err)
		assert.Equal(t, OutcomeSuccess, outcome)
		require.Len(t, tasks, 1)
		assert.Equal(t, "task-1", tasks[0].ID)
	})

	t.Run("malformed payload maps to deserialization error", func(t *testing.T) {
		server := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`"not a list"`))
			}),
		)
		defer server.Close()

		client := NewHTTPClient(server.URL, testLogger())
		_, outcome, err := client.TasksByStatus(context.Background(), domain.TaskStatusPending)

		assert.Error(t, err)
		assert.Equal(t, OutcomeDeserialization, outcome)
	})
}
