package realtime

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gohlub/TaskManager-example/internal/domain"
)

// fakeSender records payloads per channel and can be told to fail for
// specific channels.
type fakeSender struct {
	mu       sync.Mutex
	sent     map[uint32][][]byte
	failFor  map[uint32]bool
	sendErrs int
}

func newFakeSender() *fakeSender {
	return &fakeSender{
		sent:    make(map[uint32][][]byte),
		failFor: make(map[uint32]bool),
	}
}

func (s *fakeSender) Send(channelID uint32, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failFor[channelID] {
		s.sendErrs++
		return errors.New("send failed")
	}

	s.sent[channelID] = append(s.sent[channelID], payload)
	return nil
}

func (s *fakeSender) payloads(channelID uint32) [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[channelID]
}

func testBroadcaster(t *testing.T) (*Broadcaster, *Directory, *fakeSender) {
	t.Helper()
	directory := NewDirectory()
	sender := newFakeSender()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewBroadcaster(directory, sender, logger), directory, sender
}

func broadcastTask() domain.Task {
	return domain.Task{
		ID:        "task-1",
		Title:     "Write report",
		Status:    domain.TaskStatusInProgress,
		CreatedAt: 1700000000,
	}
}

func TestBroadcasterTaskUpdated(t *testing.T) {
	t.Run("delivers the serialized task to every subscriber", func(t *testing.T) {
		b, directory, sender := testBroadcaster(t)
		directory.Subscribe(1, "alice")
		directory.Subscribe(2, "bob")

		b.TaskUpdated(broadcastTask())

		for _, channelID := range []uint32{1, 2} {
			payloads := sender.payloads(channelID)
			require.Len(t, payloads, 1, "channel %d", channelID)

			var got domain.Task
			require.NoError(t, json.Unmarshal(payloads[0], &got))
			assert.Equal(t, "task-1", got.ID)
			assert.Equal(t, domain.TaskStatusInProgress, got.Status)
		}
	})

	t.Run("one failing channel does not block the others", func(t *testing.T) {
		b, directory, sender := testBroadcaster(t)
		directory.Subscribe(1, "alice")
		directory.Subscribe(2, "bob")
		directory.Subscribe(3, "carol")
		sender.failFor[2] = true

		b.TaskUpdated(broadcastTask()) // must not panic or error out

		assert.Len(t, sender.payloads(1), 1)
		assert.Len(t, sender.payloads(3), 1)
		assert.Empty(t, sender.payloads(2))
	})

	t.Run("unsubscribed channels receive nothing", func(t *testing.T) {
		b, directory, sender := testBroadcaster(t)
		directory.Subscribe(1, "alice")
		directory.Unsubscribe(1)

		b.TaskUpdated(broadcastTask())

		assert.Empty(t, sender.payloads(1))
	})
}
