package session

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// controlMessage represents a client → server control message.
type controlMessage struct {
	Action string `json:"action"`
}

// Handler creates the HTTP handler for WebSocket upgrades. Each new client
// immediately receives the current snapshot.
func Handler(mgr *Manager, src SnapshotSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			mgr.log.Warn("websocket upgrade", zap.Error(err))
			return
		}

		client := mgr.Register(conn)

		// Start read and write pumps
		go writePump(client)
		go readPump(client, mgr, src)

		mgr.SendSnapshot(client, src.Snapshot())
	}
}

// readPump processes incoming control messages from the client.
func readPump(c *Client, mgr *Manager, src SnapshotSource) {
	defer mgr.Unregister(c)

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				mgr.log.Warn("client read", zap.Uint64("client", c.ID), zap.Error(err))
			}
			return
		}

		var ctrl controlMessage
		if err := json.Unmarshal(message, &ctrl); err != nil {
			mgr.log.Warn("client sent invalid control message",
				zap.Uint64("client", c.ID), zap.Error(err))
			continue
		}

		handleControl(c, mgr, src, &ctrl)
	}
}

// handleControl processes a parsed control message.
func handleControl(c *Client, mgr *Manager, src SnapshotSource, ctrl *controlMessage) {
	switch ctrl.Action {
	case "snapshot":
		mgr.SendSnapshot(c, src.Snapshot())
	default:
		mgr.log.Warn("client sent unknown action",
			zap.Uint64("client", c.ID), zap.String("action", ctrl.Action))
	}
}

// writePump sends messages from the send channel to the WebSocket.
func writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data, ok := <-c.SendCh():
			if !ok {
				return
			}
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.Done():
			return
		}
	}
}
