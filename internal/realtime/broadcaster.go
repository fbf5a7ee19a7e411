package realtime

import (
	"encoding/json"
	"log/slog"

	"github.com/Gohlub/TaskManager-example/internal/domain"
)

// Sender pushes a payload to a single real-time channel. Implemented by the
// Hub for WebSocket connections; tests substitute fakes.
type Sender interface {
	Send(channelID uint32, payload []byte) error
}

// Broadcaster serializes a task once per mutation and pushes it to every
// subscribed channel.
type Broadcaster struct {
	directory *Directory
	sender    Sender
	logger    *slog.Logger
}

// NewBroadcaster creates a Broadcaster over the given directory and sender.
func NewBroadcaster(directory *Directory, sender Sender, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for Broadcaster")
	}

	return &Broadcaster{
		directory: directory,
		sender:    sender,
		logger:    logger.With(slog.String("component", "update_broadcaster")),
	}
}

// TaskUpdated pushes the affected task to every currently subscribed
// channel. Per-channel send failures are swallowed individually so one
// failing channel cannot prevent delivery to the others; the operation
// never fails visibly to the caller.
func (b *Broadcaster) TaskUpdated(task domain.Task) {
	payload, err := json.Marshal(task)
	if err != nil {
		b.logger.Error("failed to serialize task for broadcast",
			slog.String("task_id", task.ID),
			slog.Any("error", err))
		return
	}

	for _, channelID := range b.directory.Channels() {
		if err := b.sender.Send(channelID, payload); err != nil {
			b.logger.Debug("failed to push update to channel",
				slog.Uint64("channel_id", uint64(channelID)),
				slog.String("task_id", task.ID),
				slog.Any("error", err))
		}
	}
}
