package notify

import (
	"net/http"
	"sync"
	"time"

	"localmart-be/internal/auth"
	"localmart-be/internal/logger"
	"localmart-be/internal/utils"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

type client struct {
	userID uint
	conn   *websocket.Conn
	send   chan Event
}

// Hub fans events out to websocket connections keyed by user id.
// It implements Publisher and is injected into the services that emit events.
type Hub struct {
	mu       sync.RWMutex
	clients  map[uint]map[*client]struct{}
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[uint]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS authenticates the handshake and registers the connection under the
// caller's user id. Unauthenticated upgrades are rejected.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	tokenStr := auth.ExtractAccessToken(r)
	if tokenStr == "" {
		utils.WriteJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	claims, err := auth.ParseJWT(tokenStr)
	if err != nil {
		utils.WriteJSONError(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.FromCtx(r.Context()).Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		userID: claims.UserID,
		conn:   conn,
		send:   make(chan Event, sendBuffer),
	}

	h.register(c)
	logger.L().Info("websocket client connected", zap.Uint("user_id", c.userID))

	go c.writePump()
	go h.readPump(c)
}

// Publish sends the event to every live connection of the user. A client
// whose buffer is full is dropped rather than blocking the publisher.
// Sends happen under the read lock; the channel is only closed under the
// write lock, so a send can never race a close.
func (h *Hub) Publish(userID uint, event Event) {
	h.mu.RLock()
	var slow []*client
	for c := range h.clients[userID] {
		select {
		case c.send <- event:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.unregister(c)
	}
}

// ConnectionCount reports the number of live connections for a user.
func (h *Hub) ConnectionCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*client]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if set, ok := h.clients[c.userID]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(h.clients, c.userID)
			}
			close(c.send)
		}
	}
	h.mu.Unlock()
}

// readPump drains inbound frames so control messages are processed and
// tears the client down when the peer goes away.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
