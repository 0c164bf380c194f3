package notify

import (
	"errors"
	"sync"
	"testing"

	"team-task-board/internal/models"

	"github.com/stretchr/testify/require"
)

type recordingHub struct {
	mu       sync.Mutex
	messages [][]byte
}

func (h *recordingHub) BroadcastAll(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, message)
}

func TestCenter_PushListDismiss(t *testing.T) {
	hub := &recordingHub{}
	c := NewCenter(hub)

	first := c.Push("one", models.NotifySuccess)
	second := c.Push("two", models.NotifyReminder)

	list := c.List()
	require.Len(t, list, 2)
	require.Equal(t, "one", list[0].Message)
	require.Equal(t, "two", list[1].Message)
	require.Len(t, hub.messages, 2)

	c.Dismiss(first.ID)
	list = c.List()
	require.Len(t, list, 1)
	require.Equal(t, second.ID, list[0].ID)
}

func TestCenter_NilHub(t *testing.T) {
	c := NewCenter(nil)
	n := c.Push("hello", models.NotifySuccess)
	require.NotEmpty(t, n.ID)
	require.Len(t, c.List(), 1)
}

func TestEmitter_ReminderPushesInApp(t *testing.T) {
	c := NewCenter(nil)
	e := NewEmitter(c, failingSender{})

	err := e.EmitReminder(EmailMessage{ToName: "bob", ToEmail: "bob@example.com", Subject: "late"})
	require.Error(t, err)

	// The in-app alert fires even when the email leg fails.
	list := c.List()
	require.Len(t, list, 1)
	require.Equal(t, models.NotifyReminder, list[0].Kind)
}

type failingSender struct{}

func (failingSender) Send(EmailMessage) error {
	return errors.New("send failed")
}
