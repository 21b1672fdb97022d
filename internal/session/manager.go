package session

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ndrandal/hedge-simulator/internal/engine"
)

// SnapshotSource provides the current simulation state for pushes to clients.
type SnapshotSource interface {
	Snapshot() engine.Snapshot
}

// Envelope is the wire frame pushed to WebSocket clients.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Manager handles client registration and snapshot fan-out.
type Manager struct {
	mu         sync.RWMutex
	clients    map[uint64]*Client
	bufferSize int
	log        *zap.Logger
}

// NewManager creates a session manager.
func NewManager(bufferSize int, logger *zap.Logger) *Manager {
	return &Manager{
		clients:    make(map[uint64]*Client),
		bufferSize: bufferSize,
		log:        logger,
	}
}

// Register adds a new client. Returns the client for further use.
func (m *Manager) Register(conn *websocket.Conn) *Client {
	c := NewClient(conn, m.bufferSize)

	m.mu.Lock()
	m.clients[c.ID] = c
	m.mu.Unlock()

	m.log.Info("client connected",
		zap.Uint64("client", c.ID),
		zap.String("addr", conn.RemoteAddr().String()))
	return c
}

// Unregister removes a client.
func (m *Manager) Unregister(c *Client) {
	m.mu.Lock()
	delete(m.clients, c.ID)
	m.mu.Unlock()

	c.Close()
	m.log.Info("client disconnected", zap.Uint64("client", c.ID))
}

// BroadcastSnapshot encodes the snapshot once and fans it out to all
// connected clients. Slow clients with full buffers drop the frame.
func (m *Manager) BroadcastSnapshot(snap engine.Snapshot) {
	data, err := json.Marshal(Envelope{Type: "snapshot", Data: snap})
	if err != nil {
		m.log.Error("encode snapshot", zap.Error(err))
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.clients {
		if !c.Send(data) {
			// buffer full, frame dropped
		}
	}
}

// SendSnapshot sends the snapshot directly to a single client (e.g. the
// initial state push on connect).
func (m *Manager) SendSnapshot(c *Client, snap engine.Snapshot) {
	data, err := json.Marshal(Envelope{Type: "snapshot", Data: snap})
	if err != nil {
		m.log.Error("encode snapshot", zap.Error(err))
		return
	}
	c.Send(data)
}

// ClientCount returns the number of connected clients.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}
