// Package realtime pushes record changes to websocket clients of the same
// clinic.
package realtime

import (
	"net/http"
	"slices"
	"sync"
	"time"
	"younv/metrics"
	"younv/tenancy"
	"younv/utils"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	WRITE_TIMEOUT = 5 * time.Second
	// SEND_BUFFER is how many events a client may lag behind before it is dropped.
	SEND_BUFFER = 64
)

type Message struct {
	Type  string        `json:"type"`
	Event tenancy.Event `json:"event"`
}

type client struct {
	conn   *websocket.Conn
	clinic string
	send   chan Message
}

// Hub tracks connected clients by clinic. It implements tenancy.Notifier.
// Each client has its own writer, so a slow socket never holds up Publish.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHub accepts connections from allowedOrigins. An empty list accepts any
// origin.
func NewHub(allowedOrigins []string, logger *zap.Logger) *Hub {
	return &Hub{
		clients: map[*client]struct{}{},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowedOrigins) == 0 || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
		logger: logger.Named("realtime"),
	}
}

// Publish queues event for the clients of its clinic. Events of global
// collections carry no clinic and go to everyone. A client whose queue is
// full is dropped.
func (h *Hub) Publish(event tenancy.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg := Message{Type: "record_changed", Event: event}
	for c := range h.clients {
		if event.ClinicaID != "" && event.ClinicaID != c.clinic {
			continue
		}
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("dropping slow realtime client", zap.String("clinica_id", c.clinic))
			h.remove(c)
		}
	}
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and keeps the connection registered until
// the client goes away. Incoming messages are ignored.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clinic, ok := tenancy.TenantFrom(r.Context())
	if !ok {
		utils.SendError(w, h.logger, utils.ErrNoActiveTenant, utils.CANNOT_RESOLVE_TENANT)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := h.add(conn, clinic)
	go h.write(c)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	h.remove(c)
	h.mu.Unlock()
}

func (h *Hub) add(conn *websocket.Conn, clinic string) *client {
	c := &client{conn: conn, clinic: clinic, send: make(chan Message, SEND_BUFFER)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	metrics.RealtimeClients.Inc()
	h.mu.Unlock()
	return c
}

// write drains the queue of c until it is closed. A failed write closes the
// connection, which ends the read loop and unregisters the client.
func (h *Hub) write(c *client) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
		if err := c.conn.WriteJSON(msg); err != nil {
			h.logger.Debug("realtime write failed", zap.String("clinica_id", c.clinic), zap.Error(err))
			c.conn.Close()
			return
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	metrics.RealtimeClients.Dec()
	c.conn.Close()
}
