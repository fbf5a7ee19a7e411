package realtime

import "sync"

// Directory tracks which channels are subscribed to task updates.
// Keys are host-assigned channel identifiers, values are the client
// identifiers supplied on subscribe. A client may hold several channels;
// a channel identifier is never shared.
type Directory struct {
	mu          sync.RWMutex
	subscribers map[uint32]string
}

// NewDirectory creates an empty Directory.
func NewDirectory() *Directory {
	return &Directory{
		subscribers: make(map[uint32]string),
	}
}

// Subscribe registers a channel for updates. The insert is idempotent:
// re-subscribing overwrites the stored client identifier.
func (d *Directory) Subscribe(channelID uint32, clientID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers[channelID] = clientID
}

// Unsubscribe removes a channel if present. Removing an absent channel is
// not a failure.
func (d *Directory) Unsubscribe(channelID uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.subscribers, channelID)
}

// ClientID returns the client identifier registered for a channel.
func (d *Directory) ClientID(channelID uint32) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	clientID, ok := d.subscribers[channelID]
	return clientID, ok
}

// Channels returns a snapshot of the currently subscribed channels.
// A subscriber added concurrently with a broadcast may or may not appear
// in the snapshot; no ordering guarantee is made.
func (d *Directory) Channels() []uint32 {
	d.mu.RLock()
	defer d.mu.RUnlock()

	channels := make([]uint32, 0, len(d.subscribers))
	for channelID := range d.subscribers {
		channels = append(channels, channelID)
	}
	return channels
}

// Len returns the number of subscribed channels.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subscribers)
}
