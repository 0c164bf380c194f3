package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
)

// wsClient implements realtime.Client by wrapping a websocket connection.
type wsClient struct {
	conn *websocket.Conn
}

func (c *wsClient) Send(message []byte) bool {
	if c == nil || c.conn == nil {
		return false
	}
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteMessage(websocket.TextMessage, message) == nil
}

func (c *wsClient) Close() {
	if c != nil && c.conn != nil {
		_ = c.conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is already handled at Gin level; allow upgrade from any origin here
		return true
	},
}

// wsInbound is the only client-to-server message shape: an explicit dismissal
// of a visible notification.
type wsInbound struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// WebSocket handles GET /api/ws
// Upgrades the connection, registers the client for notification pushes, and
// replays the currently visible notifications so a freshly connected client
// starts from the same list everyone else sees.
// It requires the JWT middleware to have set "user_id" in context.
func (a *App) WebSocket(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &wsClient{conn: conn}
	a.Hub.Register(userID, client)

	snapshot := map[string]any{
		"type":          "snapshot",
		"notifications": a.Emitter.Center().List(),
	}
	if raw, err := json.Marshal(snapshot); err == nil {
		client.Send(raw)
	}

	// Heartbeat: send periodic pings; close on error
	pingTicker := time.NewTicker(wsPingPeriod)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-pingTicker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(wsWriteWait)); err != nil {
					// ping failed; reader loop will exit on next error
					return
				}
			}
		}
	}()
	defer func() {
		close(done)
		pingTicker.Stop()
		a.Hub.Unregister(userID, client)
		client.Close()
	}()

	conn.SetReadLimit(1024)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			// Normal close or error; exit loop
			return
		}
		var in wsInbound
		if json.Unmarshal(raw, &in) == nil && in.Type == "dismiss" && in.ID != "" {
			a.Emitter.Center().Dismiss(in.ID)
		}
	}
}
