package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"parcelmama/internal/domain/service"
	"parcelmama/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client is one open socket. A user may have several (tabs, devices).
type Client struct {
	Email string
	Conn  *websocket.Conn
	Send  chan []byte
}

// Manager tracks open sockets per user email and pushes notifications to them.
type Manager struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Register hands a new socket to the manager. It reports false once the manager has stopped.
func (m *Manager) Register(client *Client) bool {
	select {
	case m.register <- client:
		return true
	case <-m.done:
		return false
	}
}

func (m *Manager) Unregister(client *Client) {
	select {
	case m.unregister <- client:
	case <-m.done:
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Start runs the registration loop until ctx is done.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.register:
				m.add(client)
				logger.Debug("WebSocket client registered: %s", client.Email)

			case client := <-m.unregister:
				m.remove(client)
				logger.Debug("WebSocket client unregistered: %s", client.Email)

			case <-ctx.Done():
				m.closeAll()
				close(m.done)
				return
			}
		}
	}()
}

func (m *Manager) add(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	key := emailKey(client.Email)
	if m.clients[key] == nil {
		m.clients[key] = make(map[*Client]struct{})
	}
	m.clients[key][client] = struct{}{}
}

func (m *Manager) remove(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	key := emailKey(client.Email)
	set, ok := m.clients[key]
	if !ok {
		return
	}
	if _, ok := set[client]; ok {
		delete(set, client)
		close(client.Send)
	}
	if len(set) == 0 {
		delete(m.clients, key)
	}
}

func (m *Manager) closeAll() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for key, set := range m.clients {
		for client := range set {
			close(client.Send)
		}
		delete(m.clients, key)
	}
}

// Connected reports how many sockets the user has open.
func (m *Manager) Connected(email string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients[emailKey(email)])
}

// SendToUser queues payload on every socket of the user. Slow sockets drop the message.
func (m *Manager) SendToUser(email string, payload []byte) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	sent := 0
	for client := range m.clients[emailKey(email)] {
		select {
		case client.Send <- payload:
			sent++
		default:
			logger.Warn("WebSocket buffer full for %s, dropping message", client.Email)
		}
	}
	return sent
}

// Notify implements service.Notifier. Users without an open socket are skipped silently.
func (m *Manager) Notify(_ context.Context, msg service.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	m.SendToUser(msg.To, payload)
	return nil
}

// ReadPump drains the connection so pongs and close frames are processed.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket read error for %s: %v", c.Email, err)
			}
			return
		}
	}
}

// WritePump forwards queued messages and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("WebSocket write error for %s: %v", c.Email, err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
