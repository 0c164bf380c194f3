package realtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	messages [][]byte
	fail     bool
	closed   bool
}

func (c *recordingClient) Send(message []byte) bool {
	if c.fail {
		return false
	}
	c.messages = append(c.messages, message)
	return true
}

func (c *recordingClient) Close() { c.closed = true }

func TestBroadcastReachesOnlyTargetUser(t *testing.T) {
	hub := NewHub()
	alice := &recordingClient{}
	bob := &recordingClient{}
	hub.Register("user-alice", alice)
	hub.Register("user-bob", bob)

	hub.Broadcast("user-alice", []byte("hello"))

	require.Len(t, alice.messages, 1)
	require.Empty(t, bob.messages)
}

func TestBroadcastAllToleratesFailedWrites(t *testing.T) {
	hub := NewHub()
	healthy := &recordingClient{}
	broken := &recordingClient{fail: true}
	hub.Register("user-alice", healthy)
	hub.Register("user-bob", broken)

	hub.BroadcastAll([]byte("notice"))
	hub.BroadcastAll([]byte("again"))

	require.Len(t, healthy.messages, 2)
	require.Empty(t, broken.messages)
}

func TestUnregisterRemovesClient(t *testing.T) {
	hub := NewHub()
	alice := &recordingClient{}
	hub.Register("user-alice", alice)
	hub.Unregister("user-alice", alice)

	hub.Broadcast("user-alice", []byte("hello"))
	require.Empty(t, alice.messages)
}
