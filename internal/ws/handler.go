// Package ws serves remote play sessions over websockets. Each connection
// owns one game core; the server steps it and streams draw commands back.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/tenfreethrows/freethrows/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Client is one connected player.
type Client struct {
	conn   *websocket.Conn
	player string
	id     string
	send   chan []byte

	mu     sync.Mutex
	closed bool
}

func newClient(conn *websocket.Conn, player, id string) *Client {
	return &Client{conn: conn, player: player, id: id, send: make(chan []byte, sendBuffer)}
}

// Send queues data without blocking. It reports false when the buffer is
// full or the client is gone.
func (c *Client) Send(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// SendJSON marshals v and queues it.
func (c *Client) SendJSON(v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return c.Send(data)
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Hub tracks the connected clients, one per player. A second connection
// for the same player replaces the first.
type Hub struct {
	clients map[string]*Client
	mu      sync.RWMutex
	log     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Hub{clients: make(map[string]*Client), log: logger}
}

// Register adds c and returns the client it replaced, if any.
func (h *Hub) Register(c *Client) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()
	old := h.clients[c.player]
	h.clients[c.player] = c
	if old != nil && old != c {
		h.log.Info("replacing connection", "player", c.player, "old", old.id, "new", c.id)
		old.close()
		return old
	}
	return nil
}

// Unregister removes c if it is still the player's current client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if cur, ok := h.clients[c.player]; ok && cur == c {
		delete(h.clients, c.player)
	}
	h.mu.Unlock()
	c.close()
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SendToPlayer sends a message to a specific player
func (h *Hub) SendToPlayer(player string, message any) bool {
	h.mu.RLock()
	c, ok := h.clients[player]
	h.mu.RUnlock()
	if !ok {
		h.log.Debug("no client for player", "player", player)
		return false
	}
	if !c.SendJSON(message) {
		h.log.Warn("send dropped (buffer full)", "player", player)
		return false
	}
	return true
}

// Broadcast sends message to every client and returns how many accepted it.
func (h *Hub) Broadcast(message any) int {
	data, err := json.Marshal(message)
	if err != nil {
		h.log.Error("marshal broadcast", "err", err)
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for _, c := range h.clients {
		if c.Send(data) {
			sent++
		} else {
			h.log.Warn("broadcast dropped (buffer full)", "player", c.player)
		}
	}
	return sent
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump(logger *log.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// replaced or shutting down; the close frame is best effort
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Debug("write failed", "player", c.player, "err", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Debug("ping failed", "player", c.player, "err", err)
				return
			}
		}
	}
}

// readPump hands every text message to onMessage until the connection fails.
func (c *Client) readPump(logger *log.Logger, onMessage func([]byte)) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("read failed", "player", c.player, "err", err)
			}
			return
		}
		onMessage(data)
	}
}
