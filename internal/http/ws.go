package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// changeEvent is pushed to every connected watcher after a collection
// mutates. Clients re-fetch the named collection on receipt.
type changeEvent struct {
	Collection string `json:"collection"`
	At         string `json:"at"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans change notifications out to connected websocket clients. It
// implements Notifier, so the mutation handlers publish through it without
// knowing about connections.
type Hub struct {
	logger     *slog.Logger
	now        func() time.Time
	clients    map[*wsClient]bool
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *wsClient
	done       chan struct{}
}

// NewHub builds a hub. Run must be started before clients connect.
func NewHub(logger *slog.Logger, now func() time.Time) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Hub{
		logger:     logger,
		now:        now,
		clients:    make(map[*wsClient]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		done:       make(chan struct{}),
	}
}

// Run owns the client set until ctx is cancelled. All registration and
// broadcast traffic is serialized here, so the set needs no lock. Once Run
// returns, the done channel unblocks any sender so in-flight mutation
// handlers cannot stall shutdown.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug("watch client connected", "clients", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop it rather than stall the rest.
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Notify broadcasts a change event for the named collection. Notifications
// after shutdown are dropped.
func (h *Hub) Notify(collection string) {
	payload, err := json.Marshal(changeEvent{
		Collection: collection,
		At:         h.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		h.logger.Error("failed to encode change event", "error", err)
		return
	}
	select {
	case h.broadcast <- payload:
	case <-h.done:
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeWS upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{conn: conn, send: make(chan []byte, 16)}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)
}

func (c *wsClient) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
