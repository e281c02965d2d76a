package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/punchmoji/internal/server/api"
)

// DefaultEventInterval is the snapshot push period, about 15 per second.
const DefaultEventInterval = 66 * time.Millisecond

const writeWait = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventsHandler broadcasts game snapshots via WebSocket.
type EventsHandler struct {
	source   api.SnapshotSource
	interval time.Duration
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	stop     chan struct{}
	once     sync.Once
}

// NewEventsHandler creates an EventsHandler and starts its broadcaster.
// A zero interval means DefaultEventInterval.
func NewEventsHandler(source api.SnapshotSource, interval time.Duration) *EventsHandler {
	if interval <= 0 {
		interval = DefaultEventInterval
	}
	h := &EventsHandler{
		source:   source,
		interval: interval,
		clients:  make(map[*websocket.Conn]bool),
		stop:     make(chan struct{}),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests. The current state is sent
// right away, then on every broadcast.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(api.NewState(h.source.Snapshot())); err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer h.remove(conn)

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *EventsHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close stops the broadcaster and disconnects every client.
func (h *EventsHandler) Close() {
	h.once.Do(func() {
		close(h.stop)

		h.mu.Lock()
		defer h.mu.Unlock()
		for conn := range h.clients {
			conn.Close()
			delete(h.clients, conn)
		}
	})
}

func (h *EventsHandler) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// broadcast sends the latest snapshot to all connected clients. It is the
// only writer on registered connections.
func (h *EventsHandler) broadcast() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
		}

		if h.Clients() == 0 {
			continue
		}

		msg, err := json.Marshal(api.NewState(h.source.Snapshot()))
		if err != nil {
			log.Printf("Failed to encode state: %v", err)
			continue
		}

		var failed []*websocket.Conn
		h.mu.RLock()
		for conn := range h.clients {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				failed = append(failed, conn)
			}
		}
		h.mu.RUnlock()

		for _, conn := range failed {
			conn.Close()
			h.remove(conn)
		}
	}
}
