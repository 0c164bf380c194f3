package notify

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"team-task-board/internal/cache"
	"team-task-board/internal/models"

	"github.com/google/uuid"
)

// displayDuration is how long an in-app notification stays visible before it
// auto-expires.
const displayDuration = 8 * time.Second

// Broadcaster pushes a payload to every connected client.
type Broadcaster interface {
	BroadcastAll(message []byte)
}

// Center holds the process-wide list of transient in-app notifications.
// Entries expire on their own after the display duration or can be dismissed
// explicitly; they are never persisted.
type Center struct {
	items *cache.TTLCache[string, models.Notification]
	hub   Broadcaster
}

// NewCenter builds a Center. hub may be nil, in which case notifications are
// only exposed through List.
func NewCenter(hub Broadcaster) *Center {
	return &Center{
		items: cache.NewTTLCache[string, models.Notification](),
		hub:   hub,
	}
}

// Push adds a notification and broadcasts it to connected clients.
func (c *Center) Push(message string, kind models.NotificationKind) models.Notification {
	n := models.Notification{
		ID:        fmt.Sprintf("notif-%s", uuid.NewString()),
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
	c.items.Set(n.ID, n, displayDuration)

	if c.hub != nil {
		evt := map[string]any{
			"type":         "notification",
			"notification": n,
		}
		if raw, err := json.Marshal(evt); err == nil {
			c.hub.BroadcastAll(raw)
		}
	}
	return n
}

// List returns the currently visible notifications, oldest first.
func (c *Center) List() []models.Notification {
	out := c.items.Values()
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Dismiss removes a notification before its display window ends.
func (c *Center) Dismiss(id string) {
	c.items.Delete(id)
}
