package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"solarsystem/simulation"
)

const writeTimeout = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local telemetry viewer, any origin
	},
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes
}

// Hub streams frame snapshots to websocket clients and queues their control
// commands for the simulation thread.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	latest  []byte

	commands chan simulation.Command
}

// NewHub creates a hub that buffers up to queue pending commands.
func NewHub(queue int) *Hub {
	if queue <= 0 {
		queue = 16
	}
	return &Hub{
		clients:  make(map[*client]struct{}),
		commands: make(chan simulation.Command, queue),
	}
}

// Handler serves /ws for streaming and /state for the latest snapshot.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWebSocket)
	mux.HandleFunc("/state", h.handleState)
	return mux
}

// Publish sends the frame to every client. Clients whose write fails are dropped.
func (h *Hub) Publish(frame simulation.FrameState) {
	data, err := json.Marshal(frame)
	if err != nil {
		slog.Error("failed to encode frame", "err", err)
		return
	}

	h.mu.Lock()
	h.latest = data
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			slog.Debug("dropping telemetry client", "remote", c.conn.RemoteAddr(), "err", err)
			h.remove(c)
		}
	}
}

// Drain applies every queued command without blocking.
func (h *Hub) Drain(apply func(simulation.Command)) {
	for {
		select {
		case cmd := <-h.commands:
			apply(cmd)
		default:
			return
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.conn.Close()
	}
}

func (h *Hub) handleState(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	data := h.latest
	h.mu.RUnlock()
	if data == nil {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade error", "err", err)
		return
	}

	c := &client{conn: conn}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	latest := h.latest
	h.mu.Unlock()
	defer h.remove(c)

	if latest != nil {
		if err := c.write(latest); err != nil {
			return
		}
	}

	for {
		var cmd simulation.Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("websocket read error", "err", err)
			}
			return
		}
		select {
		case h.commands <- cmd:
		default:
			slog.Warn("command queue full, dropping command")
		}
	}
}
