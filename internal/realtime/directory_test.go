package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectory(t *testing.T) {
	t.Run("subscribe is an idempotent upsert", func(t *testing.T) {
		d := NewDirectory()

		d.Subscribe(1, "alice")
		d.Subscribe(1, "alice-second-device")

		clientID, ok := d.ClientID(1)
		require.True(t, ok)
		assert.Equal(t, "alice-second-device", clientID)
		assert.Equal(t, 1, d.Len())
	})

	t.Run("a client may hold several channels", func(t *testing.T) {
		d := NewDirectory()

		d.Subscribe(1, "alice")
		d.Subscribe(2, "alice")

		assert.Equal(t, 2, d.Len())
		assert.ElementsMatch(t, []uint32{1, 2}, d.Channels())
	})

	t.Run("unsubscribing an absent channel is not a failure", func(t *testing.T) {
		d := NewDirectory()

		d.Unsubscribe(42)
		d.Subscribe(1, "alice")
		d.Unsubscribe(1)
		d.Unsubscribe(1)

		assert.Equal(t, 0, d.Len())
		_, ok := d.ClientID(1)
		assert.False(t, ok)
	})
}

func TestDecodeEnvelope(t *testing.T) {
	t.Run("subscribe", func(t *testing.T) {
		env, err := DecodeEnvelope([]byte(`{"type":"subscribe","client_id":"alice"}`))
		require.NoError(t, err)
		assert.Equal(t, MessageSubscribe, env.Type)
		assert.Equal(t, "alice", env.ClientID)
	})

	t.Run("unsubscribe", func(t *testing.T) {
		env, err := DecodeEnvelope([]byte(`{"type":"unsubscribe"}`))
		require.NoError(t, err)
		assert.Equal(t, MessageUnsubscribe, env.Type)
	})

	t.Run("subscribe without client_id is rejected", func(t *testing.T) {
		_, err := DecodeEnvelope([]byte(`{"type":"subscribe"}`))
		assert.ErrorIs(t, err, ErrMissingClientID)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		_, err := DecodeEnvelope([]byte(`{"type":"ping"}`))
		assert.ErrorIs(t, err, ErrUnknownMessageType)
	})

	t.Run("malformed JSON is rejected", func(t *testing.T) {
		_, err := DecodeEnvelope([]byte(`{not json`))
		assert.Error(t, err)
	})
}
