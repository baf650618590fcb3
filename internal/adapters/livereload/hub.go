// Package livereload pushes rebuilt asset paths to connected browsers over a websocket.
package livereload

import (
	"context"
	"errors"
	"net/http"
	"path"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ReloadNotifier = (*Hub)(nil)

const (
	// SocketPath is the websocket endpoint clients connect to.
	SocketPath = "/__livereload"

	// writeWait is the time allowed to write a message to a client.
	writeWait = 10 * time.Second

	// pingPeriod is the interval of keepalive pings.
	pingPeriod = 30 * time.Second

	// sendBuffer is the number of messages queued per client. Clients that
	// fall further behind are dropped.
	sendBuffer = 64
)

const (
	// MessageCSS asks clients to swap a stylesheet in place.
	MessageCSS = "css"
	// MessageReload asks clients to reload the page.
	MessageReload = "reload"
)

// Message is the JSON payload sent to clients.
type Message struct {
	Type string `json:"type"`
	Path string `json:"path"`
}

// NewMessage classifies path: stylesheets are hot swapped, everything else reloads.
func NewMessage(p string) Message {
	if path.Ext(p) == ".css" {
		return Message{Type: MessageCSS, Path: p}
	}
	return Message{Type: MessageReload, Path: p}
}

type client struct {
	id   uuid.UUID
	send chan Message
}

// Hub tracks connected clients and fans out notifications.
type Hub struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*client
	closed  bool
	logger  ports.Logger
}

// NewHub creates a Hub. logger may be nil.
func NewHub(logger ports.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*client),
		logger:  logger,
	}
}

// Notify queues a message for every client without blocking. With no
// clients connected it does nothing.
func (h *Hub) Notify(p string) {
	msg := NewMessage(p)

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			delete(h.clients, id)
			close(c.send)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
}

func (h *Hub) register() (*client, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, false
	}
	c := &client{id: uuid.New(), send: make(chan Message, sendBuffer)}
	h.clients[c.id] = c
	return c, true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
}

// ServeHTTP upgrades the request and streams messages until either side goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		// Accept has already written the response.
		return
	}

	c, ok := h.register()
	if !ok {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	defer h.unregister(c)

	// Clients never send data; CloseRead handles control frames and
	// cancels ctx on disconnect.
	ctx := conn.CloseRead(r.Context())

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return

		case msg, ok := <-c.send:
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if err := h.write(ctx, conn, msg); err != nil {
				h.warn(err)
				_ = conn.CloseNow()
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				_ = conn.CloseNow()
				return
			}
		}
	}
}

func (h *Hub) write(ctx context.Context, conn *websocket.Conn, msg Message) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()

	if err := wsjson.Write(writeCtx, conn, msg); err != nil {
		return zerr.With(zerr.Wrap(err, "live reload write failed"), "path", msg.Path)
	}
	return nil
}

func (h *Hub) warn(err error) {
	if h.logger == nil || errors.Is(err, context.Canceled) {
		return
	}
	h.logger.Warn(err.Error())
}
