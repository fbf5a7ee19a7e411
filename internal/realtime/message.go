// Package realtime tracks WebSocket subscribers and fans task updates out
// to them. Delivery is fire-and-forget: one failing channel never blocks
// the others, and broadcast failures are invisible to the mutating caller.
package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message type values accepted on the real-time channel.
const (
	MessageSubscribe   = "subscribe"
	MessageUnsubscribe = "unsubscribe"
)

// Message decoding errors. Malformed frames are dropped by the hub without
// closing the connection.
var (
	// ErrUnknownMessageType is returned for a well-formed envelope whose
	// type is not one of the accepted values.
	ErrUnknownMessageType = errors.New("unknown message type")

	// ErrMissingClientID is returned when a subscribe message carries no
	// client identifier.
	ErrMissingClientID = errors.New("subscribe message requires a client_id")
)

// Envelope is the wire format for inbound real-time messages.
type Envelope struct {
	Type     string `json:"type"`
	ClientID string `json:"client_id,omitempty"`
}

// DecodeEnvelope parses an inbound frame into an Envelope and checks that
// it is one of the two accepted variants.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("malformed message payload: %w", err)
	}

	switch env.Type {
	case MessageSubscribe:
		if env.ClientID == "" {
			return Envelope{}, ErrMissingClientID
		}
	case MessageUnsubscribe:
	default:
		return Envelope{}, fmt.Errorf("%w: %q", ErrUnknownMessageType, env.Type)
	}

	return env, nil
}
