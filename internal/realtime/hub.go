package realtime

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/Gohlub/TaskManager-example/internal/domain"
)

// TaskLister supplies the full current task list for the initial sync that
// follows a subscribe. Implemented by the task service; going through it
// keeps the request-counter semantics of a listing.
type TaskLister interface {
	All() []domain.Task
}

// wsConn wraps a WebSocket connection with a write mutex, since gorilla
// connections support only one concurrent writer.
type wsConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsConn) write(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.BinaryMessage, payload)
}

// Hub owns the WebSocket connections behind the real-time channel.
// It assigns each connection a channel identifier, decodes inbound
// subscribe/unsubscribe messages, and implements Sender for the
// Broadcaster. Malformed frames are dropped silently and the connection
// stays open; a closed connection always leaves the directory.
type Hub struct {
	upgrader    websocket.Upgrader
	directory   *Directory
	logger      *slog.Logger
	nextChannel atomic.Uint32

	listerMu sync.RWMutex
	lister   TaskLister

	connsMu sync.RWMutex
	conns   map[uint32]*wsConn
}

// NewHub creates a Hub over the given directory. SetTaskLister must be
// called before the hub serves its first connection.
func NewHub(directory *Directory, logger *slog.Logger) *Hub {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for Hub")
	}

	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The host runtime is responsible for origin policy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		directory: directory,
		logger:    logger.With(slog.String("component", "realtime_hub")),
		conns:     make(map[uint32]*wsConn),
	}
}

// SetTaskLister wires in the source of the initial sync. Separate from the
// constructor because the task service and the hub reference each other.
func (h *Hub) SetTaskLister(lister TaskLister) {
	h.listerMu.Lock()
	defer h.listerMu.Unlock()
	h.lister = lister
}

// HandleConnection upgrades an HTTP request to a WebSocket connection,
// assigns it a channel identifier, and serves its read loop until close.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade connection",
			slog.String("remote_addr", r.RemoteAddr),
			slog.Any("error", err))
		return
	}

	channelID := h.nextChannel.Add(1)

	c := &wsConn{conn: conn}
	h.connsMu.Lock()
	h.conns[channelID] = c
	h.connsMu.Unlock()

	h.logger.Debug("connection opened", slog.Uint64("channel_id", uint64(channelID)))

	go h.readLoop(channelID, c)
}

// Send pushes a payload to a single channel. Returns an error for unknown
// channels and write failures; the Broadcaster swallows these per channel.
func (h *Hub) Send(channelID uint32, payload []byte) error {
	h.connsMu.RLock()
	c, ok := h.conns[channelID]
	h.connsMu.RUnlock()

	if !ok {
		return fmt.Errorf("unknown channel %d", channelID)
	}

	return c.write(payload)
}

// readLoop consumes frames until the connection closes, then removes the
// channel from both the connection table and the subscriber directory so
// the directory never contains a channel for a closed connection.
func (h *Hub) readLoop(channelID uint32, c *wsConn) {
	defer h.closeChannel(channelID, c)

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			h.logger.Debug("connection closed",
				slog.Uint64("channel_id", uint64(channelID)),
				slog.Any("error", err))
			return
		}

		switch messageType {
		case websocket.BinaryMessage, websocket.TextMessage:
			h.handleMessage(channelID, data)
		default:
			// Other frame kinds are ignored.
		}
	}
}

// handleMessage dispatches a decoded inbound frame. Decode errors are
// dropped without closing the connection.
func (h *Hub) handleMessage(channelID uint32, data []byte) {
	env, err := DecodeEnvelope(data)
	if err != nil {
		h.logger.Debug("dropping malformed realtime message",
			slog.Uint64("channel_id", uint64(channelID)),
			slog.Any("error", err))
		return
	}

	switch env.Type {
	case MessageSubscribe:
		h.directory.Subscribe(channelID, env.ClientID)
		h.sendInitialSync(channelID)
	case MessageUnsubscribe:
		h.directory.Unsubscribe(channelID)
	}
}

// sendInitialSync pushes the full current task list to a freshly subscribed
// channel only, not to the other subscribers.
func (h *Hub) sendInitialSync(channelID uint32) {
	h.listerMu.RLock()
	lister := h.lister
	h.listerMu.RUnlock()

	if lister == nil {
		h.logger.Error("no task lister wired, skipping initial sync",
			slog.Uint64("channel_id", uint64(channelID)))
		return
	}

	payload, err := json.Marshal(lister.All())
	if err != nil {
		h.logger.Error("failed to serialize initial sync",
			slog.Uint64("channel_id", uint64(channelID)),
			slog.Any("error", err))
		return
	}

	if err := h.Send(channelID, payload); err != nil {
		h.logger.Debug("failed to push initial sync",
			slog.Uint64("channel_id", uint64(channelID)),
			slog.Any("error", err))
	}
}

// closeChannel tears down a connection's state after its read loop exits.
func (h *Hub) closeChannel(channelID uint32, c *wsConn) {
	h.directory.Unsubscribe(channelID)

	h.connsMu.Lock()
	delete(h.conns, channelID)
	h.connsMu.Unlock()

	if err := c.conn.Close(); err != nil {
		h.logger.Debug("error closing connection",
			slog.Uint64("channel_id", uint64(channelID)),
			slog.Any("error", err))
	}
}
