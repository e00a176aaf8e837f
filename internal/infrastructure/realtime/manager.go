package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"tradevault/pkg/logger"
)

// Client represents one WebSocket connection for a user.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

// Manager tracks active WebSocket connections and pushes trade events to
// them. Delivery is best effort: a slow or disconnected client is dropped,
// never waited on.
type Manager struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's main loop in a goroutine until ctx is cancelled.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				// A reconnect replaces the old connection; close its channel
				// so its write pump exits.
				if old, ok := m.clients[client.UserID]; ok && old != client {
					close(old.Send)
				}
				m.clients[client.UserID] = client
				m.mutex.Unlock()
				logger.Debug("Realtime client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				// The stale connection's unregister must not evict a client
				// that reconnected in the meantime.
				if current, ok := m.clients[client.UserID]; ok && current == client {
					delete(m.clients, client.UserID)
					close(client.Send)
				}
				m.mutex.Unlock()
				logger.Debug("Realtime client unregistered: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

type event struct {
	Event   string                 `json:"event"`
	Payload map[string]interface{} `json:"payload"`
}

// Notify pushes an event to one user. It satisfies the use-case Notifier
// interface and never blocks; if the client's buffer is full the event is
// dropped.
func (m *Manager) Notify(userID string, name string, payload map[string]interface{}) {
	data, err := json.Marshal(event{Event: name, Payload: payload})
	if err != nil {
		logger.Error("Failed to marshal realtime event %s: %v", name, err)
		return
	}

	m.mutex.RLock()
	client, ok := m.clients[userID]
	m.mutex.RUnlock()
	if !ok {
		return
	}

	select {
	case client.Send <- data:
	default:
		logger.Warn("Realtime buffer full, dropping event %s for user %s", name, userID)
	}
}

// ReadPump drains inbound frames until the connection closes. Inbound
// payloads are ignored; the stream is push only.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("Realtime read error: %v", err)
			}
			break
		}
	}
}

// WritePump sends queued events to the WebSocket connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Error("Realtime write error: %v", err)
			return
		}
	}
}
